package pipeline

import "errors"

// Process exit codes. These are part of the CLI contract; scripts key off
// them to distinguish failure sites.
const (
	ExitOK                       = 0
	ExitUsage                    = 2
	ExitDownloadFailed           = 3
	ExitFileMissing              = 4
	ExitTranscriptionFailed      = 5
	ExitTranscriptionError       = 6
	ExitTranscriptMissing        = 7
	ExitSubtitleMissing          = 8
	ExitTranslationFailed        = 9
	ExitTranslationOutputMissing = 10
)

// CodedError ties a pipeline failure to its process exit code.
type CodedError struct {
	Code int
	Err  error
}

func (e *CodedError) Error() string {
	if e.Err == nil {
		return "pipeline error"
	}
	return e.Err.Error()
}

func (e *CodedError) Unwrap() error { return e.Err }

// Coded wraps err with an exit code.
func Coded(code int, err error) error {
	return &CodedError{Code: code, Err: err}
}

// ExitCode extracts the exit code from an error chain. A nil error is 0;
// an uncoded error is 1.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var coded *CodedError
	if errors.As(err, &coded) {
		return coded.Code
	}
	return 1
}
