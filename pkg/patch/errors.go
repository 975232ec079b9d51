package patch

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vango-dev/sprout/pkg/vdom"
)

// Sentinel errors for patch application.
var (
	// ErrDocumentAPI is returned when a live document call fails (invalid tag
	// name, namespace error, hierarchy error).
	ErrDocumentAPI = errors.New("patch: document API failure")

	// ErrInvalidPath is returned when a patch path does not resolve in the new
	// tree, or resolves to a node of the wrong kind.
	ErrInvalidPath = errors.New("patch: invalid path")

	// ErrDanglingReference is returned when a node of the new tree has no live
	// counterpart after a cycle.
	ErrDanglingReference = errors.New("patch: dangling reference")
)

// PatchError wraps an error with the patch that caused it.
type PatchError struct {
	Op   vdom.PatchOp
	Path []int
	Err  error
}

// Error returns the error message with patch context.
func (e *PatchError) Error() string {
	if e.Op == 0 {
		return fmt.Sprintf("patch %s: %v", formatPath(e.Path), e.Err)
	}
	return fmt.Sprintf("patch %s %s: %v", e.Op, formatPath(e.Path), e.Err)
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *PatchError) Unwrap() error {
	return e.Err
}

// docErr marks a document failure. A nil err stays nil.
func docErr(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrDocumentAPI, err)
}

func invalidPath(path []int, format string, args ...any) error {
	return fmt.Errorf("%w %s: %s", ErrInvalidPath, formatPath(path), fmt.Sprintf(format, args...))
}

func formatPath(path []int) string {
	if len(path) == 0 {
		return "[]"
	}
	return strings.ReplaceAll(fmt.Sprint(path), " ", ",")
}
