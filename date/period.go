package date

import (
	"fmt"
	"strings"
)

// Lookback is a chart window expressed as a number of daily bars.
type Lookback int

// Chart windows offered by the price charts.
const (
	OneDay      Lookback = 1
	OneWeek     Lookback = 7
	OneMonth    Lookback = 30
	ThreeMonths Lookback = 90
	SixMonths   Lookback = 180
	OneYear     Lookback = 365
)

func (l Lookback) String() string {
	switch l {
	case OneDay:
		return "1d"
	case OneWeek:
		return "1w"
	case OneMonth:
		return "1m"
	case ThreeMonths:
		return "3m"
	case SixMonths:
		return "6m"
	case OneYear:
		return "1y"
	default:
		return fmt.Sprintf("%dd", int(l))
	}
}

// ParseLookback parses a chart window code ("7d", "1w", "1m", "3m", "6m", "1y").
// An empty code means one month.
func ParseLookback(code string) (Lookback, error) {
	switch strings.ToLower(strings.TrimSpace(code)) {
	case "1d":
		return OneDay, nil
	case "7d", "1w":
		return OneWeek, nil
	case "", "1m":
		return OneMonth, nil
	case "3m":
		return ThreeMonths, nil
	case "6m":
		return SixMonths, nil
	case "1y":
		return OneYear, nil
	default:
		return OneMonth, fmt.Errorf("unknown chart window %q", code)
	}
}

// Range returns the range of days covered by the window ending on 'on'.
func (l Lookback) Range(on Date) Range { return LastDays(on, int(l)) }
