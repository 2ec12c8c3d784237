package models

// Effort and impact levels for recommendations.
const (
	LevelLow    = "low"
	LevelMedium = "medium"
	LevelHigh   = "high"
)

// Recommendation types.
const (
	RecContentGap           = "content_gap"
	RecSentimentPositioning = "sentiment_positioning"
	RecPostingTime          = "posting_time"
	RecContentFormat        = "content_format"
	RecThreatResponse       = "threat_response"
)

// Recommendation is an actionable suggestion attached to exactly one AnalysisResult.
type Recommendation struct {
	ID                   string         `json:"id"`
	AnalysisID           string         `json:"analysis_id"`
	Type                 string         `json:"type"`
	Title                string         `json:"title"`
	Description          string         `json:"description"`
	PriorityScore        float64        `json:"priority_score"`
	ImplementationEffort string         `json:"implementation_effort"`
	ExpectedImpact       string         `json:"expected_impact"`
	Metadata             map[string]any `json:"metadata"`
}
