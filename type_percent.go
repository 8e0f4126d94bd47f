package stockfolio

import (
	"fmt"
	"math"
)

// Percent is a ratio times 100: 12.5 reads 12.5%.
type Percent float64

// Equal compares to 4 decimals.
func (p Percent) Equal(q Percent) bool { return math.Abs(float64(p-q)) < 1e-4 }

func (p Percent) String() string { return fmt.Sprintf("%.2f%%", float64(p)) }

// SignedString always prints the sign, and "-" for a change that rounds to zero.
func (p Percent) SignedString() string {
	s := fmt.Sprintf("%+.2f%%", float64(p))
	if s == "+0.00%" || s == "-0.00%" {
		return "-"
	}
	return s
}
