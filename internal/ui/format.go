package ui

import (
	"fmt"
	"math"
)

// placeholder is rendered wherever a numeric field is absent or
// non-finite. Degrading beats failing for every consumer here.
const placeholder = "—"

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// fmtFloat renders v with the given precision, or the placeholder when
// v is not finite.
func fmtFloat(v float64, prec int) string {
	if !finite(v) {
		return placeholder
	}
	return fmt.Sprintf("%.*f", prec, v)
}

// fmtSignedPct renders a percentage with an explicit sign, e.g.
// "+0.1234%".
func fmtSignedPct(v float64) string {
	if !finite(v) {
		return placeholder
	}
	return fmt.Sprintf("%+.4f%%", v)
}

// fmtPct renders a plain percentage with two decimals.
func fmtPct(v float64) string {
	if !finite(v) {
		return placeholder
	}
	return fmt.Sprintf("%.2f%%", v)
}

// fmtLatency renders a millisecond figure rounded to the nearest
// integer, or the placeholder for non-finite input.
func fmtLatency(ms float64) string {
	if !finite(ms) {
		return placeholder
	}
	return fmt.Sprintf("%.0fms", ms)
}

// fmtRuntime renders seconds as a compact duration: "42s", "5m12s",
// "2h05m".
func fmtRuntime(sec int64) string {
	if sec < 0 {
		return placeholder
	}
	switch {
	case sec < 60:
		return fmt.Sprintf("%ds", sec)
	case sec < 3600:
		return fmt.Sprintf("%dm%02ds", sec/60, sec%60)
	default:
		return fmt.Sprintf("%dh%02dm", sec/3600, (sec%3600)/60)
	}
}

// fmtPrice renders a price with enough precision for small-cap symbols.
func fmtPrice(v float64) string {
	if !finite(v) {
		return placeholder
	}
	if v >= 100 {
		return fmt.Sprintf("%.2f", v)
	}
	return fmt.Sprintf("%.4f", v)
}

// fmtSize renders an order size.
func fmtSize(v float64) string {
	if !finite(v) {
		return placeholder
	}
	return fmt.Sprintf("%.4f", v)
}
