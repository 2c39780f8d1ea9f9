package projection

import (
	"fmt"
	"strconv"
)

func FormatSLR(slr float64) string {
	return fmt.Sprintf("+%.2fm SLR", slr)
}

func FormatCost(cost float64) string {
	return fmt.Sprintf("$%.1fT economic loss", cost)
}

// FormatHeadline is the compact header stat, e.g. "$6.2".
func FormatHeadline(cost float64) string {
	return fmt.Sprintf("$%.1f", cost)
}

// FormatRestHeadline is the header stat while the pointer is away, e.g. "$14".
func FormatRestHeadline(cost float64) string {
	return "$" + strconv.FormatFloat(cost, 'f', -1, 64)
}

func FormatYear(year int) string {
	return strconv.Itoa(year)
}
