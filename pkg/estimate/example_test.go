package estimate_test

import (
	"fmt"

	"github.com/markremodeling/renovation/pkg/estimate"
)

func ExampleCalculate() {
	est, err := estimate.Calculate(estimate.Request{
		Service:  estimate.Bathroom,
		AreaSqFt: 50,
		Material: estimate.Basic,
		Extras:   estimate.Extras{Plumbing: true},
	})
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("$%.0f ($%.0f - $%.0f)\n", est.Total, est.Low, est.High)
	for _, line := range est.Breakdown {
		fmt.Println(line)
	}
	// Output:
	// $7900 ($7110 - $9085)
	// Base & size-adjusted cost: approx. $7000
	// Plumbing adjustments (Bathroom Remodel): approx. $900
}
