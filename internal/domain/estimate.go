package domain

// Confidence is an advisory quality grade, not a probability.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

type EstimateErrorKind string

const (
	EstimateErrValidation    EstimateErrorKind = "validation"
	EstimateErrConfiguration EstimateErrorKind = "configuration"
	EstimateErrEstimation    EstimateErrorKind = "estimation"
)

// PostalEstimate is a suggested postal code shown to staff for confirmation.
// It is never applied to a record automatically.
type PostalEstimate struct {
	PostalCode *string           `json:"postal_code"`
	Confidence Confidence        `json:"confidence"`
	Error      string            `json:"error,omitempty"`
	ErrorKind  EstimateErrorKind `json:"error_kind,omitempty"`
}
