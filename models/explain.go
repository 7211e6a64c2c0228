package models

// Confidence level attached to a prediction.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// Prediction is a short-horizon forecast derived from recent gossip trends.
type Prediction struct {
	Message    string     `json:"message"`
	Confidence Confidence `json:"confidence"`
}

// Explanation collects human-readable justifications and predictions for
// one node. Why entries are distinct and kept in evaluation order.
type Explanation struct {
	NodeID      string       `json:"node_id"`
	Why         []string     `json:"why"`
	Predictions []Prediction `json:"predictions"`
}
