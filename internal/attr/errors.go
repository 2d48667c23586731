package attr

import "fmt"

// MissingAttributeError reports a template placeholder whose path could not
// be resolved after all resolution steps. It is fatal and propagates to the
// caller of Resolve unchanged; inputs are expected to be internally
// consistent.
type MissingAttributeError struct {
	// Path is the unresolved placeholder path, e.g. "info.owner".
	Path string
	// Template is the raw string the placeholder appeared in.
	Template string
}

func (e *MissingAttributeError) Error() string {
	return fmt.Sprintf("attr: unresolvable placeholder {%s} in template %q", e.Path, e.Template)
}
