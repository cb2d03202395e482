package capability

import "errors"

// Registry error taxonomy. Every failure is local and synchronous, raised
// at the point of violation; callers own any retry policy. Wrapped
// messages carry the offending id and the current vs. attempted value so
// an operator can correct the input without digging through logs.
var (
	// ErrNotFound means a capability or template id did not resolve.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateID means a registration collided with an existing capability.
	ErrDuplicateID = errors.New("duplicate capability id")
	// ErrDuplicateTemplateID means a template id already exists under the capability.
	ErrDuplicateTemplateID = errors.New("duplicate template id")
	// ErrInvalidCapability means a capability failed structural validation.
	ErrInvalidCapability = errors.New("invalid capability")
	// ErrInvalidTemplate means a template failed structural validation.
	ErrInvalidTemplate = errors.New("invalid template")
	// ErrInvalidProgression means a maturity downgrade or a jump past more
	// than one level was attempted.
	ErrInvalidProgression = errors.New("invalid maturity progression")
	// ErrHasDependents means a delete was blocked by depending capabilities.
	ErrHasDependents = errors.New("capability has dependents")
)
