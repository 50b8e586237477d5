package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/markremodeling/renovation/pkg/estimate"
)

var (
	estService  string
	estArea     float64
	estMaterial string
	estExtras   estimate.Extras
	estFormat   string
)

var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Print a ballpark price for a kitchen, bathroom or flooring project",
	Example: `  renovation estimate --service kitchen --area 150 --material standard --plumbing
  renovation estimate --service flooring --area 400 --material basic --demolition --format json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		est, err := estimate.Calculate(estimate.Request{
			Service:  estimate.Service(estService),
			AreaSqFt: estArea,
			Material: estimate.Material(estMaterial),
			Extras:   estExtras,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		switch estFormat {
		case "markdown", "md":
			_, err = fmt.Fprintln(out, est.Markdown())
		case "json":
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			err = enc.Encode(est)
		case "text":
			_, err = fmt.Fprintf(out, "%s, %g sq ft, %s materials: $%.0f ($%.0f - $%.0f)\n",
				est.Request.Service.Label(), est.Request.AreaSqFt, est.Request.Material.Label(),
				est.Total, est.Low, est.High)
		default:
			err = fmt.Errorf("unknown format %q (markdown, json, text)", estFormat)
		}
		return err
	},
}

func init() {
	estimateCmd.Flags().StringVar(&estService, "service", string(estimate.Kitchen), "kitchen, bathroom or flooring")
	estimateCmd.Flags().Float64Var(&estArea, "area", 0, "area in square feet")
	estimateCmd.Flags().StringVar(&estMaterial, "material", string(estimate.Standard), "basic, standard or premium")
	estimateCmd.Flags().BoolVar(&estExtras.Demolition, "demolition", false, "include demolition / tear-out")
	estimateCmd.Flags().BoolVar(&estExtras.Plumbing, "plumbing", false, "include plumbing adjustments")
	estimateCmd.Flags().BoolVar(&estExtras.Electrical, "electrical", false, "include electrical updates")
	estimateCmd.Flags().StringVar(&estFormat, "format", "markdown", "output format: markdown, json or text")
	rootCmd.AddCommand(estimateCmd)
}
