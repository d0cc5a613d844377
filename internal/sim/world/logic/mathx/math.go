package mathx

func FloorDiv(a, b int) int {
	// b > 0
	q := a / b
	r := a % b
	if r < 0 {
		q--
	}
	return q
}

func Mod(a, b int) int {
	// b > 0
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

// Frac returns the fractional part of v in [0,1).
func Frac(v float64) float64 {
	f := v - float64(int64(v))
	if f < 0 {
		f++
	}
	return f
}
