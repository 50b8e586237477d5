package catalog

import "encoding/json"

// Mode is a top-level assistant tool.
type Mode string

const (
	ModeMeasure  Mode = "measure"
	ModeRedesign Mode = "redesign"
	ModeCost     Mode = "cost"
)

// Method is a sub-tool within a mode.
type Method string

const (
	MethodAuto       Method = "auto"
	MethodManual     Method = "manual"
	MethodCalibrated Method = "calibrated"
	MethodText       Method = "text"
	MethodVision     Method = "vision"
	MethodImage      Method = "image"
)

// Card is a selectable tool tile. The set of variants is closed: only
// ModeCard and MethodCard implement it.
type Card interface {
	Kind() string
	Heading() string
	card()
}

// ModeCard selects a top-level mode.
type ModeCard struct {
	Mode        Mode
	Icon        string
	Title       string
	Description string
}

// MethodCard selects a method inside a mode. Endpoint is the API route
// that serves it, empty when the method runs entirely client side.
type MethodCard struct {
	Mode        Mode
	Method      Method
	Icon        string
	Title       string
	Description string
	Endpoint    string
}

func (ModeCard) Kind() string      { return "mode" }
func (c ModeCard) Heading() string { return c.Title }
func (ModeCard) card()             {}

func (MethodCard) Kind() string      { return "method" }
func (c MethodCard) Heading() string { return c.Title }
func (MethodCard) card()             {}

func (c ModeCard) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind        string `json:"kind"`
		Mode        Mode   `json:"mode"`
		Icon        string `json:"icon"`
		Title       string `json:"title"`
		Description string `json:"description"`
	}{c.Kind(), c.Mode, c.Icon, c.Title, c.Description})
}

func (c MethodCard) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind        string `json:"kind"`
		Mode        Mode   `json:"mode"`
		Method      Method `json:"method"`
		Icon        string `json:"icon"`
		Title       string `json:"title"`
		Description string `json:"description"`
		Endpoint    string `json:"endpoint,omitempty"`
	}{c.Kind(), c.Mode, c.Method, c.Icon, c.Title, c.Description, c.Endpoint})
}

var modeCards = []ModeCard{
	{Mode: ModeMeasure, Icon: "ruler", Title: "Measure My Room", Description: "Auto, traced or calibrated measurement."},
	{Mode: ModeRedesign, Icon: "paintbrush", Title: "Redesign My Room", Description: "Get personalized design ideas, colors & layouts."},
	{Mode: ModeCost, Icon: "wallet", Title: "Cost Estimator", Description: "Material & labor cost ranges."},
}

var methodCards = []MethodCard{
	{Mode: ModeMeasure, Method: MethodAuto, Icon: "image", Title: "AI Auto Measurement", Description: "Upload a photo and let AI estimate your room size.", Endpoint: "/api/photo-analyze"},
	{Mode: ModeMeasure, Method: MethodManual, Icon: "pencil", Title: "Manual Trace Mode", Description: "Draw room shape for precise, cost-free measurement.", Endpoint: "/api/measure/area"},
	{Mode: ModeMeasure, Method: MethodCalibrated, Icon: "scaling", Title: "Calibrated Real Measurement", Description: "Pick two known points, then measure anything.", Endpoint: "/api/measure/ruler"},
	{Mode: ModeRedesign, Method: MethodText, Icon: "paintbrush", Title: "Describe My Room (Text)", Description: "Tell us about your space and get a full design plan.", Endpoint: "/api/redesign"},
	{Mode: ModeRedesign, Method: MethodVision, Icon: "image", Title: "Analyze Photo (Vision)", Description: "Upload a room photo; AI analyzes layout & suggests redesign.", Endpoint: "/api/redesign-vision"},
	{Mode: ModeRedesign, Method: MethodImage, Icon: "image", Title: "Generate Before/After Image", Description: "AI transforms your room into a styled redesign.", Endpoint: "/api/redesign-image"},
}

// Cards returns every mode card followed by every method card.
func Cards() []Card {
	out := make([]Card, 0, len(modeCards)+len(methodCards))
	for _, c := range modeCards {
		out = append(out, c)
	}
	for _, c := range methodCards {
		out = append(out, c)
	}
	return out
}

// MethodsFor returns the method cards of one mode. The cost mode has none.
func MethodsFor(m Mode) []MethodCard {
	var out []MethodCard
	for _, c := range methodCards {
		if c.Mode == m {
			out = append(out, c)
		}
	}
	return out
}

// Describe renders a one-line label for any card.
func Describe(c Card) string {
	switch v := c.(type) {
	case ModeCard:
		return string(v.Mode) + ": " + v.Title
	case MethodCard:
		return string(v.Mode) + "/" + string(v.Method) + ": " + v.Title
	default:
		panic("catalog: unknown card variant")
	}
}
