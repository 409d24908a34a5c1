package arbor

import "errors"

// None of these errors is fatal. They are returned for callers that want to
// inspect what was absorbed, and logged otherwise.
var (
	// ErrMissingTarget reports a focus or tree operation that referenced an id
	// absent from the current accessibility node list.
	ErrMissingTarget = errors.New("arbor: target not in accessibility tree")

	// ErrUnresolvedAttribute reports an attribute value that could not be
	// interpreted; the attribute is treated as absent.
	ErrUnresolvedAttribute = errors.New("arbor: unresolved attribute")

	// ErrStructuralInconsistency reports a node listed in the layer index that
	// is missing from the tree or from layout.
	ErrStructuralInconsistency = errors.New("arbor: structural inconsistency")
)
