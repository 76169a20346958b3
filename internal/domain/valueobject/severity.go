package valueobject

// Severity grades a change detection.
type Severity string

const (
	SeverityLow  Severity = "low"
	SeverityHigh Severity = "high"
)

// HighSeverityConfidence is the confidence a detected change must exceed to
// be graded high.
const HighSeverityConfidence = 0.8

// SeverityFor grades a change detection result.
func SeverityFor(detected bool, confidence float64) Severity {
	if detected && confidence > HighSeverityConfidence {
		return SeverityHigh
	}
	return SeverityLow
}
