package huffcodec

import (
	"math"
)

func addSaturating(a, b uint64) uint64 {
	sum := a + b
	if sum < a {
		return math.MaxUint64
	}
	return sum
}
