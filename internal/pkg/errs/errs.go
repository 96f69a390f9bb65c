// Package errs is the project's thin seam over cockroachdb/errors: wrap for
// context, mark with sentinel errors for classification at the handler layer.
package errs

import (
	"fmt"
	"strings"

	cr "github.com/cockroachdb/errors"
)

// Wrap annotates err with msg, passing nil through untouched.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return cr.Wrap(err, msg)
}

// New creates an error with a captured stack trace.
func New(msg string) error {
	return cr.New(msg)
}

// Mark attaches markErr as a sentinel so errors.Is(err, markErr) holds while
// the original cause and stack are preserved. The sentinel sits alongside the
// cause in the unwrap tree, so plain errors.Is sees it; Error() still reads
// as the cause alone.
func Mark(err error, markErr error) error {
	if err == nil {
		return markErr
	}
	return &marked{cause: err, mark: markErr}
}

type marked struct {
	cause error
	mark  error
}

func (m *marked) Error() string { return m.cause.Error() }

func (m *marked) Unwrap() []error { return []error{m.cause, m.mark} }

// Format keeps the cause's verbose rendering (stack traces) reachable
// through %+v.
func (m *marked) Format(st fmt.State, verb rune) {
	if verb == 'v' && st.Flag('+') {
		fmt.Fprintf(st, "%+v", m.cause)
		return
	}
	fmt.Fprintf(st, "%s", m.Error())
}

// ExtractStackLines renders the error verbosely and returns at most maxLines
// lines, for log output that should not dump entire stacks.
func ExtractStackLines(err error, maxLines int) []string {
	if err == nil {
		return nil
	}
	s := fmt.Sprintf("%+v", err)
	lines := strings.Split(s, "\n")
	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	return lines
}
