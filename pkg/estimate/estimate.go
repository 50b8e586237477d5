// Package estimate produces ballpark renovation prices from fixed pricing tables
package estimate

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Service is a priced project type
type Service string

const (
	Kitchen  Service = "kitchen"
	Bathroom Service = "bathroom"
	Flooring Service = "flooring"
)

// Material is the finish level
type Material string

const (
	Basic    Material = "basic"
	Standard Material = "standard"
	Premium  Material = "premium"
)

// Range factors applied to the total
const (
	LowFactor  = 0.9
	HighFactor = 1.15

	// LaborShare and MaterialShare split a total for the printable estimate
	LaborShare    = 0.55
	MaterialShare = 0.45
)

var (
	ErrUnknownService  = errors.New("estimate: unknown service")
	ErrUnknownMaterial = errors.New("estimate: unknown material level")
	ErrInvalidArea     = errors.New("estimate: area must be a positive number")
)

// Pricing holds the lookup tables for one service
type Pricing struct {
	Label       string
	BaseMinCost float64
	CostPerSqFt float64
	Multipliers map[Material]float64
}

var pricing = map[Service]Pricing{
	Kitchen: {
		Label:       "Kitchen Remodel",
		BaseMinCost: 8000,
		CostPerSqFt: 160,
		Multipliers: map[Material]float64{Basic: 1.0, Standard: 1.3, Premium: 1.6},
	},
	Bathroom: {
		Label:       "Bathroom Remodel",
		BaseMinCost: 6000,
		CostPerSqFt: 140,
		Multipliers: map[Material]float64{Basic: 1.0, Standard: 1.25, Premium: 1.5},
	},
	Flooring: {
		Label:       "Flooring Installation",
		BaseMinCost: 1200,
		CostPerSqFt: 8,
		Multipliers: map[Material]float64{Basic: 1.0, Standard: 1.4, Premium: 1.8},
	},
}

var materialLabels = map[Material]string{
	Basic:    "Basic",
	Standard: "Standard",
	Premium:  "Premium",
}

// Services lists the priced services in display order
func Services() []Service {
	return []Service{Kitchen, Bathroom, Flooring}
}

// Materials lists the material levels in display order
func Materials() []Material {
	return []Material{Basic, Standard, Premium}
}

// PricingFor returns the pricing table for a service
func PricingFor(s Service) (Pricing, bool) {
	p, ok := pricing[s]
	return p, ok
}

// Label returns the display name of the service
func (s Service) Label() string {
	if p, ok := pricing[s]; ok {
		return p.Label
	}
	return string(s)
}

// Label returns the display name of the material level
func (m Material) Label() string {
	if l, ok := materialLabels[m]; ok {
		return l
	}
	return string(m)
}

// Extras are optional add-ons
type Extras struct {
	Demolition bool `json:"demolition"`
	Plumbing   bool `json:"plumbing"`
	Electrical bool `json:"electrical"`
}

// Names returns the selected extras in a stable order
func (e Extras) Names() []string {
	var names []string
	if e.Demolition {
		names = append(names, "demolition")
	}
	if e.Plumbing {
		names = append(names, "plumbing")
	}
	if e.Electrical {
		names = append(names, "electrical")
	}
	return names
}

// Request describes a project to price
type Request struct {
	Service  Service  `json:"service"`
	AreaSqFt float64  `json:"area"`
	Material Material `json:"material"`
	Extras   Extras   `json:"extras"`
}

// Estimate is the priced result
type Estimate struct {
	Request      Request  `json:"request"`
	Total        float64  `json:"total"`
	Low          float64  `json:"low"`
	High         float64  `json:"high"`
	LaborCost    float64  `json:"laborCost"`
	MaterialCost float64  `json:"materialCost"`
	Breakdown    []string `json:"breakdown"`
}

// Validate checks the request against the pricing tables
func (r Request) Validate() error {
	p, ok := pricing[r.Service]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownService, r.Service)
	}
	if _, ok := p.Multipliers[r.Material]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownMaterial, r.Material)
	}
	if !(r.AreaSqFt > 0) || math.IsInf(r.AreaSqFt, 0) {
		return ErrInvalidArea
	}
	return nil
}

// Calculate prices a request:
//
//	total = max(baseMin, perSqFt * area * multiplier) + extras
//	low   = total * 0.9
//	high  = total * 1.15
func Calculate(r Request) (Estimate, error) {
	if err := r.Validate(); err != nil {
		return Estimate{}, err
	}
	p := pricing[r.Service]
	mult := p.Multipliers[r.Material]

	sized := p.CostPerSqFt * r.AreaSqFt * mult
	total := math.Max(p.BaseMinCost, sized)

	breakdown := []string{
		fmt.Sprintf("Base & size-adjusted cost: approx. $%.0f", sized),
	}

	if r.Extras.Demolition {
		if r.Service == Flooring {
			demo := r.AreaSqFt * 1.75
			total += demo
			breakdown = append(breakdown, fmt.Sprintf("Existing floor tear-out: approx. $%.0f", demo))
		} else {
			total += 700
			breakdown = append(breakdown, "Demolition / tear-out: approx. $700")
		}
	}

	// plumbing does not apply to flooring
	if r.Extras.Plumbing && (r.Service == Kitchen || r.Service == Bathroom) {
		plumbing := 750.0
		if r.Service == Bathroom {
			plumbing = 900
		}
		total += plumbing
		breakdown = append(breakdown, fmt.Sprintf("Plumbing adjustments (%s): approx. $%.0f", p.Label, plumbing))
	}

	if r.Extras.Electrical {
		electrical := 600.0
		if r.Service == Kitchen {
			electrical = 950
		}
		total += electrical
		breakdown = append(breakdown, fmt.Sprintf("Electrical updates: approx. $%.0f", electrical))
	}

	return Estimate{
		Request:      r,
		Total:        total,
		Low:          total * LowFactor,
		High:         total * HighFactor,
		LaborCost:    total * LaborShare,
		MaterialCost: total * MaterialShare,
		Breakdown:    breakdown,
	}, nil
}

// Markdown renders the estimate as a chat message
func (e Estimate) Markdown() string {
	r := e.Request
	extras := "None"
	if names := r.Extras.Names(); len(names) > 0 {
		extras = strings.Join(names, ", ")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "### Estimate Summary – %s\n\n", r.Service.Label())
	fmt.Fprintf(&b, "- **Project:** %s\n", r.Service.Label())
	fmt.Fprintf(&b, "- **Room Size:** %g sq ft\n", r.AreaSqFt)
	fmt.Fprintf(&b, "- **Materials:** %s\n", r.Material.Label())
	fmt.Fprintf(&b, "- **Extras:** %s\n\n", extras)
	fmt.Fprintf(&b, "**Estimated Range:** $%.0f – $%.0f\n\n", e.Low, e.High)
	if len(e.Breakdown) > 0 {
		b.WriteString("**Breakdown:**\n")
		for _, line := range e.Breakdown {
			fmt.Fprintf(&b, "- %s\n", line)
		}
		b.WriteString("\n")
	}
	b.WriteString("> Ballpark estimate. Final pricing confirmed after on-site inspection.")
	return b.String()
}
