package status

import "fmt"

// Confidence is the three-tier confidence level attached to remote-EU
// classification results.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// ParseConfidence converts a raw string to a Confidence.
func ParseConfidence(s string) (Confidence, error) {
	c := Confidence(s)
	switch c {
	case ConfidenceHigh, ConfidenceMedium, ConfidenceLow:
		return c, nil
	}
	return "", fmt.Errorf("unknown confidence %q", s)
}

// AtLeast expands a confidence floor into the set of tiers it admits.
// Requesting "low" means "at least low confident" and therefore includes
// everything; "high" includes only "high".
func (c Confidence) AtLeast() []Confidence {
	switch c {
	case ConfidenceHigh:
		return []Confidence{ConfidenceHigh}
	case ConfidenceMedium:
		return []Confidence{ConfidenceHigh, ConfidenceMedium}
	default:
		return []Confidence{ConfidenceHigh, ConfidenceMedium, ConfidenceLow}
	}
}
