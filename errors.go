package phototune

import "errors"

// Error taxonomy shared by both engines and the worker gateway.
//
// Numeric inputs outside their documented ranges are clamped, never
// rejected; the errors below cover the cases that cannot be clamped away.
var (
	// ErrUnsupportedEnvironment is returned when no GPU backend or adapter
	// is available. Fatal for the GPU path and never retried internally;
	// callers are expected to fall back to the CPU engine.
	ErrUnsupportedEnvironment = errors.New("phototune: unsupported environment")

	// ErrShaderCompile is returned when a WGSL shader module fails to
	// compile. Fatal for that effect; the compiler diagnostic is wrapped.
	ErrShaderCompile = errors.New("phototune: shader compile failed")

	// ErrShaderLink is returned when pipeline creation from a compiled
	// shader module fails.
	ErrShaderLink = errors.New("phototune: pipeline link failed")

	// ErrInvalidParameters is returned for malformed or missing request
	// fields. Local to one request; never crashes the engine host.
	ErrInvalidParameters = errors.New("phototune: invalid parameters")

	// ErrUnknownOperation is returned for an unrecognized effect key at a
	// deserialization boundary.
	ErrUnknownOperation = errors.New("phototune: unknown operation")
)
