package measure

import (
	"fmt"

	"gonum.org/v1/gonum/floats/scalar"
)

// Round2 rounds to two decimal places for presentation
func Round2(v float64) float64 {
	return scalar.Round(v, 2)
}

// FormatLength renders an inch measurement with its feet equivalent
func FormatLength(inches float64) string {
	return fmt.Sprintf("%.2f in (~%.2f ft)", inches, inches/InchesPerFoot)
}

// FormatArea renders an area in square feet
func FormatArea(sqft float64) string {
	return fmt.Sprintf("%.2f ft²", sqft)
}
