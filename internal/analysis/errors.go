package analysis

import "errors"

// ErrInvalidInput is returned when a submission carries neither pasted text
// nor file data. It is the single source of truth for the validation
// message; the analyze client does not re-check.
var ErrInvalidInput = errors.New("please provide a document text or upload a file to analyze")

// AnalysisFailedError is the one domain error for any analysis failure:
// network, parse, or validation. It preserves the underlying message text
// for display without leaking the provider's error shape.
type AnalysisFailedError struct {
	Err error
}

func (e *AnalysisFailedError) Error() string {
	return "the AI model could not process the document: " + e.Err.Error()
}

func (e *AnalysisFailedError) Unwrap() error { return e.Err }
