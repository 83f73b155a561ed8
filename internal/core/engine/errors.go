package engine

import "errors"

// ErrConfiguration marks a rule-authoring fault: a malformed rule document,
// an unknown step name, an unsupported action subtype, a self-remap or a
// chained remap, or a schema version below the configured minimum. It is
// always fatal to the run and never retried.
var ErrConfiguration = errors.New("rule configuration error")

// IsConfiguration reports whether err stems from a rule-authoring fault
// rather than an external collaborator failure.
func IsConfiguration(err error) bool {
	return errors.Is(err, ErrConfiguration)
}
