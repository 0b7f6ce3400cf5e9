package domain

import "errors"

var (
	// ErrMissingStandards means no parameter thresholds were available, so a
	// lab result cannot be scored.
	ErrMissingStandards = errors.New("parameter standards are missing")

	// ErrUnknownReadingKind is returned for readings that are neither sensory nor lab.
	ErrUnknownReadingKind = errors.New("unknown reading kind")
)

// ConfigurationError reports a setup problem (missing or unreachable
// reference data) as opposed to a problem with the submitted reading.
type ConfigurationError struct {
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Err == nil {
		return "configuration error: " + e.Reason
	}
	return "configuration error: " + e.Reason + ": " + e.Err.Error()
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// IsConfigurationError reports whether err is or wraps a *ConfigurationError.
func IsConfigurationError(err error) bool {
	var cfgErr *ConfigurationError
	return errors.As(err, &cfgErr)
}
