package models

import "errors"

var (
	// ErrUnknownField indicates a field identifier that names no ColorTheme field.
	ErrUnknownField = errors.New("unknown theme field")

	// ErrPresetNotFound indicates a preset ID outside the built-in catalog.
	ErrPresetNotFound = errors.New("preset not found")

	// ErrStoreUnbound indicates a request arrived before the theme store was bound.
	ErrStoreUnbound = errors.New("theme manager not initialized")

	// ErrNamespaceRequired indicates an empty preference namespace.
	ErrNamespaceRequired = errors.New("namespace is required")

	// ErrKeyRequired indicates an empty preference key.
	ErrKeyRequired = errors.New("key is required")
)
