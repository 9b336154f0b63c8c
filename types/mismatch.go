package types

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// TypeMismatch is raised by union/intersect/equal_refine when two types
// cannot be structurally combined. It carries the nested path at which
// the mismatch was discovered, e.g. "variant case b is not present in
// both variants" or "struct field x -> array element: Integer is not
// compatible with String".
type TypeMismatch struct {
	Path    []string
	Message string
}

func (e *TypeMismatch) Error() string {
	if len(e.Path) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", strings.Join(e.Path, " -> "), e.Message)
}

func mismatch(path []string, format string, args ...interface{}) error {
	cp := make([]string, len(path))
	copy(cp, path)
	return errors.WithStack(&TypeMismatch{Path: cp, Message: fmt.Sprintf(format, args...)})
}

func withPath(path []string, segment string) []string {
	out := make([]string, len(path), len(path)+1)
	copy(out, path)
	return append(out, segment)
}
