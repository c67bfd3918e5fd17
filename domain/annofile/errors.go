package annofile

import "fmt"

// StructuralError reports an annotation document that is missing required
// content or refers to frames that do not exist. Nothing is loaded when it is
// returned.
type StructuralError struct {
	Element string
	Reason  string
	Err     error
}

func (e *StructuralError) Error() string {
	msg := fmt.Sprintf("annotation file: <%s>: %s", e.Element, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *StructuralError) Unwrap() error { return e.Err }

func structural(element, format string, args ...any) *StructuralError {
	return &StructuralError{Element: element, Reason: fmt.Sprintf(format, args...)}
}

// ResourceError reports that an annotation file could not be created, read or
// written.
type ResourceError struct {
	Op   string
	Path string
	Err  error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *ResourceError) Unwrap() error { return e.Err }
