package types

import (
	"errors"
	"fmt"
)

// ErrConfiguration is wrapped by every error that aborts a registry build.
var ErrConfiguration = errors.New("configuration error")

// Registry build errors. All of them satisfy errors.Is(err, ErrConfiguration).
var (
	ErrDocumentNotFound  = fmt.Errorf("%w: content types document not found", ErrConfiguration)
	ErrDocumentInvalid   = fmt.Errorf("%w: configuration file is invalid", ErrConfiguration)
	ErrMissingSection    = fmt.Errorf("%w: required section missing", ErrConfiguration)
	ErrGlobalNotFound    = fmt.Errorf("%w: global field not defined", ErrConfiguration)
	ErrDuplicateGlobals  = fmt.Errorf("%w: more than one globals entry", ErrConfiguration)
	ErrUnknownEntityType = fmt.Errorf("%w: unknown entity type", ErrConfiguration)
	ErrInvalidEntityType = fmt.Errorf("%w: invalid entity type definition", ErrConfiguration)
	ErrUnknownWidget     = fmt.Errorf("%w: widget class could not be resolved", ErrConfiguration)
	ErrUnknownStepMethod = fmt.Errorf("%w: unknown actor method", ErrConfiguration)
	ErrUnknownToken      = fmt.Errorf("%w: unknown special value token", ErrConfiguration)
	ErrInvalidField      = fmt.Errorf("%w: invalid field definition", ErrConfiguration)
	ErrInvalidBundle     = fmt.Errorf("%w: invalid content type definition", ErrConfiguration)
)

// ErrNotFound is wrapped by lookup misses on a built registry.
var ErrNotFound = errors.New("not found")

// Lookup errors.
var (
	ErrContentTypeNotFound = fmt.Errorf("content type %w", ErrNotFound)
	ErrGlobalFieldNotFound = fmt.Errorf("global field %w", ErrNotFound)
	ErrGlobalExtraNotFound = fmt.Errorf("global extra %w", ErrNotFound)
	ErrFieldNotFound       = fmt.Errorf("field %w", ErrNotFound)
)

// Fill errors.
var (
	ErrNoWidget     = errors.New("field has no widget")
	ErrInvalidValue = errors.New("invalid value for widget")
)

// Journal errors.
var (
	ErrJournalClosed = errors.New("journal is closed")
)
