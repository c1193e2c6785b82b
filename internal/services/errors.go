package services

import "errors"

var (
	// ErrNotFound is returned when the requested translation id does not
	// exist.
	ErrNotFound = errors.New("translation not found")

	// ErrDuplicateKey is returned when a create targets a triple that
	// already has an active translation.
	ErrDuplicateKey = errors.New("translation already exists for this namespace, key and language")

	// ErrUnsupportedLanguage is returned when the language code is outside
	// the configured supported set.
	ErrUnsupportedLanguage = errors.New("language is not in the supported set")

	// ErrUnknownNamespace is returned when the namespace is not a recognized
	// active namespace.
	ErrUnknownNamespace = errors.New("namespace is not recognized")
)
