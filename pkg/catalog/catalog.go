// Package catalog holds the company profile, service list and the tool cards
// offered by the renovation assistant.
package catalog

import (
	"encoding/json"

	"github.com/markremodeling/renovation/pkg/estimate"
)

// Service is one offering shown on the services page.
type Service struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon,omitempty"`
}

// Contact details printed in the footer and given to the chat assistant.
type Contact struct {
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// QuotePrice is the per-service pricing the chat assistant may quote from.
type QuotePrice struct {
	Service     string             `json:"service"`
	BaseMinCost float64            `json:"baseMinCost"`
	CostPerSqFt float64            `json:"baseCostPerSqFt"`
	Multipliers map[string]float64 `json:"materialMultiplier"`
}

// Company is the official data the chat assistant is allowed to use.
type Company struct {
	Name         string       `json:"name"`
	Tagline      string       `json:"tagline"`
	Services     []Service    `json:"services"`
	Contact      Contact      `json:"contact"`
	Warranty     string       `json:"warranty"`
	Process      []string     `json:"process"`
	ProjectTypes []string     `json:"projectTypes"`
	QuotePricing []QuotePrice `json:"quotePricing"`
}

var services = []Service{
	{Title: "Kitchen Remodeling", Description: "Full kitchen renovations: cabinetry, countertops, appliances, lighting, and layout optimization.", Icon: "🍽️"},
	{Title: "Bathroom Remodeling", Description: "Modern fixtures, custom tile work, walk-in showers, vanities, and spa-level details.", Icon: "🚿"},
	{Title: "Basement Finishing", Description: "Turn unused basements into media rooms, guest suites, gyms, or play spaces.", Icon: "🏡"},
	{Title: "Room Additions", Description: "Add square footage with seamless additions that match your home’s style.", Icon: "➕"},
	{Title: "Exterior Renovations", Description: "Siding, roofing, doors, windows, and outdoor living spaces built to last.", Icon: "🏠"},
	{Title: "Handyman Services", Description: "Repairs, maintenance, and small upgrades handled quickly and professionally.", Icon: "🧰"},
}

var projectTypes = []string{
	"Bathroom Remodel",
	"Kitchen Renovation",
	"Living Room Redesign",
	"Flooring Replacement",
	"Interior Painting",
	"Basement Finish",
	"Complete Home Renovation",
	"Exterior Upgrade",
	"Custom Project",
}

// Services returns the service list.
func Services() []Service {
	out := make([]Service, len(services))
	copy(out, services)
	return out
}

// ProjectTypes returns the project choices offered before picking a tool.
func ProjectTypes() []string {
	out := make([]string, len(projectTypes))
	copy(out, projectTypes)
	return out
}

// DefaultCompany returns the built-in company profile.
func DefaultCompany() Company {
	return Company{
		Name:    "Mark-Remodeling",
		Tagline: "Renovations that blend craft and precision",
		Services: Services(),
		Contact: Contact{
			Phone: "(555) 123-4567",
			Email: "info@constructionco.com",
		},
		Warranty: "Workmanship is covered for two years from project completion.",
		Process: []string{
			"Free consultation and site visit",
			"Design and written estimate",
			"Permits and scheduling",
			"Construction with weekly updates",
			"Final walkthrough",
		},
		ProjectTypes: ProjectTypes(),
		QuotePricing: quotePricing(),
	}
}

func quotePricing() []QuotePrice {
	var out []QuotePrice
	for _, s := range estimate.Services() {
		p, _ := estimate.PricingFor(s)
		mult := make(map[string]float64, len(p.Multipliers))
		for m, v := range p.Multipliers {
			mult[string(m)] = v
		}
		out = append(out, QuotePrice{
			Service:     p.Label,
			BaseMinCost: p.BaseMinCost,
			CostPerSqFt: p.CostPerSqFt,
			Multipliers: mult,
		})
	}
	return out
}

// JSON renders the company data for embedding in a prompt.
func (c Company) JSON() string {
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(b)
}
