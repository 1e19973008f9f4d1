package auth

import "time"

// Strategy issues and verifies bearer tokens for an opaque subject.
type Strategy interface {
	IssueToken(subject string) (string, error)
	ParseToken(token string) (string, error)
	Name() string
}

type Options struct {
	TTL time.Duration
}
