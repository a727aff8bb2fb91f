package httperr

import "errors"

// BusinessError is a validation or state failure the caller can fix. Code
// is the stable error_code sent to clients.
type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

// Code returns the business code carried anywhere in err's chain.
func Code(err error) (string, bool) {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code, true
	}
	return "", false
}

func IsBusiness(err error, code string) bool {
	got, ok := Code(err)
	return ok && got == code
}
