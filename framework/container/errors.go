package container

import (
	"fmt"
	"strings"
)

// chainSeparator joins call-stack frames in error messages.
const chainSeparator = " -> "

// FormatCallStack renders a resolution chain the way errors report it.
//
//	FormatCallStack([]string{"foo", "bar"}) // "foo -> bar"
func FormatCallStack(stack []string) string {
	return strings.Join(stack, chainSeparator)
}

// ── BindingError ──────────────────────────────────────────────────────────────

// BindingError is returned by Bind when the value offered as a provider
// cannot be invoked with the container.
type BindingError struct {
	Name   string
	Reason string
}

func (e *BindingError) Error() string {
	return fmt.Sprintf("container: cannot bind %q: %s", e.Name, e.Reason)
}

// ── MissingDependencyError ────────────────────────────────────────────────────

// MissingDependencyError is returned when resolution reaches a name that has
// no provider. Chain holds the in-flight names leading to it, Name excluded.
type MissingDependencyError struct {
	Name  string
	Chain []string
}

func (e *MissingDependencyError) Error() string {
	frames := append(append([]string(nil), e.Chain...), e.Name+" (missing)")
	return fmt.Sprintf("container: dependency %q is not defined: %s; bind one using Bind(%q, ...)",
		e.Name, FormatCallStack(frames), e.Name)
}

// ── CyclicDependencyError ─────────────────────────────────────────────────────

// CyclicDependencyError is returned when resolution re-enters a name that is
// already in the active chain.
type CyclicDependencyError struct {
	Name  string
	Chain []string
}

func (e *CyclicDependencyError) Error() string {
	frames := append(append([]string(nil), e.Chain...), e.Name+" (cycle)")
	return "container: cyclic dependency chain detected: " + FormatCallStack(frames)
}

// ── ProviderError ─────────────────────────────────────────────────────────────

// ProviderError wraps a failure that originated inside a provider rather
// than in the container itself. Chain ends with Name.
type ProviderError struct {
	Name  string
	Chain []string
	Err   error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("container: provider for %q failed (%s): %v",
		e.Name, FormatCallStack(e.Chain), e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// ── BuildError ────────────────────────────────────────────────────────────────

// BuildError reports a Builder or Auto provider that cannot construct its
// target from the resolved dependencies (wrong arity, unassignable value,
// unsupported type).
type BuildError struct {
	Target string
	Chain  []string
	Reason string
}

func (e *BuildError) Error() string {
	if len(e.Chain) == 0 {
		return fmt.Sprintf("container: cannot build %s: %s", e.Target, e.Reason)
	}
	return fmt.Sprintf("container: cannot build %s (%s): %s",
		e.Target, FormatCallStack(e.Chain), e.Reason)
}

// ── TypeError ─────────────────────────────────────────────────────────────────

// TypeError is returned by Resolve when a binding produced a value of a
// different type than requested.
type TypeError struct {
	Name string
	Want string
	Got  string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("container: %q resolved to %s, want %s", e.Name, e.Got, e.Want)
}

// isContainerError reports whether err already carries resolution context
// and must travel up the chain untouched.
func isContainerError(err error) bool {
	switch err.(type) {
	case *MissingDependencyError, *CyclicDependencyError, *ProviderError, *BuildError, *TypeError:
		return true
	}
	return false
}
