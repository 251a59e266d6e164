// Package util provides small shared helpers.
package util

import (
	"net/mail"

	"github.com/lithammer/shortuuid/v4"
)

// GenUID generates a short unique identifier for an entity.
func GenUID() string {
	return shortuuid.New()
}

// ValidateEmail validates that the string is an RFC 5322 address.
func ValidateEmail(email string) bool {
	if _, err := mail.ParseAddress(email); err != nil {
		return false
	}
	return true
}
