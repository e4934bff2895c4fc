package prompt

import (
	"fmt"
	"strings"
)

// LoadError covers directory, file, and schema problems. It is fatal at
// startup; during a reload the previous index stays in effect and the error is
// reported to the reload caller.
type LoadError struct {
	Dir  string
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("load prompts from %s: %s: %v", e.Dir, e.Path, e.Err)
	}
	return fmt.Sprintf("load prompts from %s: %v", e.Dir, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// NotFoundError is caller-resolvable: unknown task, unknown (task, version),
// or a task with no active version.
type NotFoundError struct {
	Task    string
	Version string
}

func (e *NotFoundError) Error() string {
	if e.Version != "" {
		return fmt.Sprintf("prompt %s@%s not found", e.Task, e.Version)
	}
	return fmt.Sprintf("no active prompt version for task %q", e.Task)
}

// RenderError marks a mismatch between template authoring and caller usage.
// It is never retried.
type RenderError struct {
	Task       string
	Version    string
	Missing    []string
	Undeclared []string
}

func (e *RenderError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing variables: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Undeclared) > 0 {
		parts = append(parts, "undeclared placeholders: "+strings.Join(e.Undeclared, ", "))
	}
	if len(parts) == 0 {
		parts = append(parts, "render failed")
	}
	return fmt.Sprintf("render prompt %s@%s: %s", e.Task, e.Version, strings.Join(parts, "; "))
}
