package models

import "strings"

// Scope namespaces lockout keys by the action being guarded.
type Scope string

const ScopeClinicVerification Scope = "verify"

// Key is a composite lockout key "scope:identifier".
type Key struct {
	Scope      Scope
	Identifier string
}

// NewKey builds a key, normalizing the identifier.
func NewKey(scope Scope, identifier string) Key {
	return Key{Scope: scope, Identifier: strings.ToLower(strings.TrimSpace(identifier))}
}

func (k Key) String() string {
	return string(k.Scope) + ":" + k.Identifier
}
