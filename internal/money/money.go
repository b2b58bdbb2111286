package money

import "fmt"

// Format renders an amount of minor currency units as dollars. Whole-dollar
// amounts leave the cents off, matching the storefront's price display.
func Format(cents int64) string {
	dollars := cents / 100
	remainder := cents % 100
	if remainder == 0 {
		return fmt.Sprintf("$%d", dollars)
	}
	return fmt.Sprintf("$%d.%02d", dollars, remainder)
}
