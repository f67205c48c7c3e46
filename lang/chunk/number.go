package chunk

import "strconv"

// formatNumber renders a float64 the way Bang source does: integral values
// print without a decimal point, everything else uses Go's shortest
// round-trippable form (grounded on original_source's plain `{}` Display,
// which relies on Rust's f64 Display never appending a trailing ".0" for
// whole numbers either).
func formatNumber(n float64) string {
	if n == float64(int64(n)) {
		return strconv.FormatInt(int64(n), 10)
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}

// Index converts a Bang numeric index into a slice/string offset in
// [0, length], rounding ties away from zero and treating negative numbers as
// counting from the end (spec.md §9's calculate_index ambiguity resolution,
// grounded on original_source/interpreter/src/value.rs's calculate_index).
func Index(n float64, length int) int {
	idx := int(roundAwayFromZero(absFloat(n)))
	if idx > length {
		return length
	}
	if n < 0 {
		return length - idx
	}
	return idx
}

func absFloat(n float64) float64 {
	if n < 0 {
		return -n
	}
	return n
}

func roundAwayFromZero(n float64) float64 {
	if n < 0 {
		return -roundAwayFromZero(-n)
	}
	frac := n - float64(int64(n))
	if frac >= 0.5 {
		return float64(int64(n) + 1)
	}
	return float64(int64(n))
}
