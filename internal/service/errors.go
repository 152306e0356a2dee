package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrValidation         = errors.New("validation")           // 400
	ErrUnsupportedPayment = errors.New("unsupported payment")  // 400
	ErrInvalidCredentials = errors.New("invalid credentials")  // 401
	ErrInvalidToken       = errors.New("invalid token")        // 401
	ErrUnauthorized       = errors.New("unauthorized")         // 401
	ErrForbidden          = errors.New("forbidden")            // 403
	ErrBlocked            = errors.New("account blocked")      // 403
	ErrUnverified         = errors.New("account not verified") // 403
	ErrNotFound           = errors.New("not found")            // 404
	ErrDuplicate          = errors.New("already exists")       // 409
	ErrInUse              = errors.New("still referenced")     // 409
)

// notFound maps a missing row to ErrNotFound and passes other errors through.
func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	}
	return err
}

func duplicate(err error, what string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %s", ErrDuplicate, what)
	}
	return err
}

// inUse maps a foreign key violation to ErrInUse.
func inUse(err error, what string) error {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return fmt.Errorf("%w: %s", ErrInUse, what)
	}
	return err
}
