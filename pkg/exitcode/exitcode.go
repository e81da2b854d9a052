// Package exitcode provides standardized exit codes for supportsync
package exitcode

// Exit codes for supportsync CLI
const (
	Success         = 0
	GeneralError    = 1
	ConfigError     = 2
	ValidationError = 3
	FileSystemError = 4
	NetworkError    = 5
	PermissionError = 6
	TimeoutError    = 7
	NotFound        = 8
	NotRepository   = 9
)

// String returns a human-readable description of the exit code
func String(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case ConfigError:
		return "Configuration error"
	case ValidationError:
		return "Validation error"
	case FileSystemError:
		return "File system error"
	case NetworkError:
		return "Network error"
	case PermissionError:
		return "Permission error"
	case TimeoutError:
		return "Timeout error"
	case NotFound:
		return "Not found"
	case NotRepository:
		return "Not a git repository"
	default:
		return "Unknown error"
	}
}

// Error pins an explicit exit code to an error. Callers mapping errors to
// codes should check for it with errors.As before anything else.
type Error struct {
	Code int
	Err  error
}

func (e *Error) Error() string { return e.Err.Error() }

func (e *Error) Unwrap() error { return e.Err }

// Wrap attaches code to err. A nil err stays nil.
func Wrap(code int, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Err: err}
}
