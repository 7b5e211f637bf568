package auth

import (
	"errors"
	"fmt"
)

// ErrPrincipalNotFound is returned when an identifier resolves to no
// enrolled principal or the principal has no credential record.
var ErrPrincipalNotFound = errors.New("principal not found or not enrolled")

// ErrAccountLocked is returned for any login attempt against a locked
// credential record, regardless of password correctness. The lock is
// terminal until an external unlock clears it.
var ErrAccountLocked = errors.New("account locked")

// BadCredentialError reports a wrong password. The attempt was counted;
// Remaining is the number of attempts left before the account locks.
type BadCredentialError struct {
	Remaining int
}

func (e *BadCredentialError) Error() string {
	return fmt.Sprintf("bad credential, %d attempts remaining", e.Remaining)
}

// IsBadCredential reports whether err is a BadCredentialError and returns
// the remaining attempt count when it is.
func IsBadCredential(err error) (int, bool) {
	var bce *BadCredentialError
	if errors.As(err, &bce) {
		return bce.Remaining, true
	}
	return 0, false
}
