package retry

// permanentError marks a failure as not worth another attempt.
type permanentError struct {
	cause error
}

func (e permanentError) Error() string {
	return e.cause.Error()
}

func (e permanentError) Unwrap() error {
	return e.cause
}

// Permanent wraps err so Execute stops immediately instead of retrying.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return permanentError{cause: err}
}
