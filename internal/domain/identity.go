package domain

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const minDisplayNameLen = 2

var contactPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Identity is the optional display name and contact captured before an attempt is ranked.
type Identity struct {
	DisplayName string
	Contact     string
}

// Normalize trims surrounding whitespace from both fields.
func (i Identity) Normalize() Identity {
	return Identity{
		DisplayName: strings.TrimSpace(i.DisplayName),
		Contact:     strings.TrimSpace(i.Contact),
	}
}

// Validate checks the normalized identity. Errors wrap ErrMalformedIdentity.
func (i Identity) Validate() error {
	n := i.Normalize()
	if n.DisplayName == "" {
		return fmt.Errorf("%w: name is required", ErrMalformedIdentity)
	}
	if utf8.RuneCountInString(n.DisplayName) < minDisplayNameLen {
		return fmt.Errorf("%w: name must be at least %d characters", ErrMalformedIdentity, minDisplayNameLen)
	}
	if n.Contact != "" && !contactPattern.MatchString(n.Contact) {
		return fmt.Errorf("%w: invalid email address %q", ErrMalformedIdentity, n.Contact)
	}
	return nil
}
