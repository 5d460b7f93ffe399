package components

import "errors"

var (
	// ErrDuplicateDefinition indicates an attempt to register a component name or alias twice.
	ErrDuplicateDefinition = errors.New("components: duplicate definition")
	// ErrInvalidDefinition occurs when a definition fails schema validation.
	ErrInvalidDefinition = errors.New("components: invalid definition")
	// ErrUnknownComponent is returned when rendering a name the registry does not know.
	ErrUnknownComponent = errors.New("components: unknown component")
	// ErrUnsafeOutput is returned by the sanitizer when rendered markup contains script content.
	ErrUnsafeOutput = errors.New("components: unsafe output")
)
