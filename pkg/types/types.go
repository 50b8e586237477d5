package types

// Role of a chat message author
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Image is an inline image attached to a message
type Image struct {
	Data     []byte
	MIMEType string
}

// Message is one turn of a conversation sent to a language model
type Message struct {
	Role    Role    `json:"role"`
	Content string  `json:"content"`
	Images  []Image `json:"-"`
}

// ChatRequest is a backend-neutral completion request
type ChatRequest struct {
	Model       string
	Messages    []Message
	Temperature *float64
	MaxTokens   int
	// JSON asks the backend to constrain output to a JSON object
	JSON bool
}

// ImageRequest asks an image model to render a picture
type ImageRequest struct {
	Model  string
	Prompt string
	Size   string
	// Reference is an optional source photo for backends that support editing
	Reference *Image
}

// GeneratedImage is the decoded output of an image model
type GeneratedImage struct {
	Data     []byte
	MIMEType string
}

// RoomMeasurements are the dimensions a vision model estimated from a photo
type RoomMeasurements struct {
	WidthFt    float64 `json:"width_ft"`
	LengthFt   float64 `json:"length_ft"`
	AreaSqFt   float64 `json:"area_sq_ft"`
	Confidence float64 `json:"confidence"`
}

// RoomAnalysis contains the complete analysis result from the vision model
type RoomAnalysis struct {
	Measurements   *RoomMeasurements `json:"measurements,omitempty"`
	Description    string            `json:"description,omitempty"`
	RenovationTips []string          `json:"renovation_tips,omitempty"`
}

// CostSummary is the client-computed budget summary sent with advice requests
type CostSummary struct {
	Area         float64 `json:"area"`
	MaterialCost float64 `json:"materialCost"`
	LaborCost    float64 `json:"laborCost"`
	TotalCost    float64 `json:"totalCost"`
	FitsBudget   bool    `json:"fitsBudget"`
}

// ProjectDetails describes a planned renovation for the advice prompt
type ProjectDetails struct {
	Room     string       `json:"room"`
	Width    float64      `json:"width"`
	Length   float64      `json:"length"`
	Material string       `json:"material"`
	Budget   float64      `json:"budget"`
	Summary  *CostSummary `json:"summary,omitempty"`
}
