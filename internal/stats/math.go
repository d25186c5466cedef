package stats

import "math"

// Percentage returns round(100*part/total), or 0 when total is not positive.
// The result is clamped to [0,100].
func Percentage(part, total int) int {
	if total <= 0 || part <= 0 {
		return 0
	}
	p := int(math.Round(float64(part) * 100 / float64(total)))
	if p > 100 {
		return 100
	}
	return p
}

// Sum adds up a slice of counts.
func Sum(values []int) int {
	total := 0
	for _, v := range values {
		total += v
	}
	return total
}
