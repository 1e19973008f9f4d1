package model

import "strings"

// Owner is the operator responsible for one or more machines.
type Owner struct {
	ID           string
	FullName     string
	Email        string
	PasswordHash string
}

// NewOwner validates identity and email of the owner.
func NewOwner(id, fullName, email, passwordHash string) (*Owner, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	email = strings.TrimSpace(email)
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	return &Owner{ID: id, FullName: fullName, Email: email, PasswordHash: passwordHash}, nil
}
