package model

import (
	"fmt"
	"regexp"

	"github.com/google/uuid"

	domainErrors "github.com/polkiloo/vendingmachine/internal/domain/errors"
)

// NewID generates identifier for a new aggregate.
func NewID() string {
	return uuid.NewString()
}

// ValidateID checks that id is a canonical UUID.
func ValidateID(id string) error {
	parsed, err := uuid.Parse(id)
	if err != nil || parsed.String() != id {
		return fmt.Errorf("%w: %q", domainErrors.ErrInvalidID, id)
	}
	return nil
}

var emailPattern = regexp.MustCompile(
	"^[-!#$%&'*+/0-9=?A-Z^_a-z`{|}~](\\.?[-!#$%&'*+/0-9=?A-Z^_a-z`{|}~])*@[a-zA-Z0-9](-*\\.?[a-zA-Z0-9])*\\.[a-zA-Z](-?[a-zA-Z0-9])+$",
)

// ValidateEmail checks email format.
func ValidateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return fmt.Errorf("%w: %q", domainErrors.ErrInvalidEmail, email)
	}
	return nil
}
