package services

import "errors"

var (
	// ErrUnsupportedMode is returned for a mode outside the closed set.
	ErrUnsupportedMode = errors.New("unsupported analysis mode")
	// ErrInsufficientData is returned when the competitor corpus is absent.
	ErrInsufficientData = errors.New("insufficient competitor content")
	// ErrMissingUserCorpus is returned when a comparison mode has no user corpus.
	ErrMissingUserCorpus = errors.New("user content required for this mode")
	// ErrAnalysisAborted wraps the context error when a run is cancelled or times out.
	ErrAnalysisAborted = errors.New("analysis aborted")
)
