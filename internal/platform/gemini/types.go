package gemini

// promptData is the data passed to every prompt template.
type promptData struct {
	Content    string
	Context    string
	MaxLength  int
	Categories string
	Now        string
	Thread     string
	Prompt     string
}

// repliesResponse is the JSON shape requested for reply suggestions
type repliesResponse struct {
	Replies []string `json:"replies"`
}

// categoryResponse is the JSON shape requested for categorization
type categoryResponse struct {
	Category string `json:"category"`
}

// intentResponse is the JSON shape requested for scheduling intents. The
// date-time arrives as RFC 3339 text and is parsed separately.
type intentResponse struct {
	IntentType   string   `json:"intent_type"`
	Title        string   `json:"title"`
	DateTime     string   `json:"datetime"`
	Duration     string   `json:"duration"`
	Participants []string `json:"participants"`
	Location     string   `json:"location"`
	Description  string   `json:"description"`
	Confidence   float32  `json:"confidence"`
}
