package entities

import "time"

// ReviewStatus is the lifecycle status of a review
type ReviewStatus string

const (
	ReviewStatusInProgress ReviewStatus = "in_progress"
	ReviewStatusCompleted  ReviewStatus = "completed"
)

// FindingSeverity grades a review finding
type FindingSeverity string

const (
	FindingLow      FindingSeverity = "low"
	FindingNormal   FindingSeverity = "normal"
	FindingHigh     FindingSeverity = "high"
	FindingCritical FindingSeverity = "critical"
)

// Finding is one issue recorded during a review
type Finding struct {
	Text      string          `json:"text"`
	Severity  FindingSeverity `json:"severity"`
	Timestamp time.Time       `json:"timestamp"`
}

// Question is an open question raised during a review
type Question struct {
	Text      string    `json:"text"`
	Field     string    `json:"field,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Recommendation is a follow-up action proposed during a review
type Recommendation struct {
	Text       string    `json:"text"`
	ActionType string    `json:"action_type"`
	Timestamp  time.Time `json:"timestamp"`
}

// Review collects the findings, questions and recommendations of a
// reviewer examining one intervention. Completed reviews are immutable.
type Review struct {
	ID              string           `json:"id"`
	InterventionID  string           `json:"intervention_id"`
	Reviewer        string           `json:"reviewer"`
	CreatedAt       time.Time        `json:"created_at"`
	AssessmentData  map[string]any   `json:"assessment_data,omitempty"`
	Findings        []Finding        `json:"findings"`
	Questions       []Question       `json:"questions"`
	Recommendations []Recommendation `json:"recommendations"`
	Status          ReviewStatus     `json:"status"`
	CompletedAt     *time.Time       `json:"completed_at,omitempty"`
}

// ReviewSummary condenses a review into severity counts
type ReviewSummary struct {
	ReviewID             string       `json:"review_id"`
	Reviewer             string       `json:"reviewer"`
	Status               ReviewStatus `json:"status"`
	TotalFindings        int          `json:"total_findings"`
	CriticalFindings     int          `json:"critical_findings"`
	HighFindings         int          `json:"high_findings"`
	TotalQuestions       int          `json:"total_questions"`
	TotalRecommendations int          `json:"total_recommendations"`
	CompletedAt          *time.Time   `json:"completed_at,omitempty"`
}
