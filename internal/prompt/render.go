package prompt

import (
	"regexp"
	"sort"
)

var placeholderRe = regexp.MustCompile(`\{([a-zA-Z_][a-zA-Z0-9_]*)\}`)

// Render substitutes each placeholder in def.Template with the matching entry
// from vars. Validation happens before any substitution, so a failed render
// produces no partial output. Substitution is a single pass over the original
// template: values containing placeholder-shaped text are never re-expanded.
// No escaping is applied; callers own the safety of injected values.
func Render(def *Definition, vars map[string]string) (string, error) {
	declared := make(map[string]bool, len(def.Variables))
	for _, name := range def.Variables {
		declared[name] = true
	}

	undeclaredSet := make(map[string]bool)
	for _, match := range placeholderRe.FindAllStringSubmatch(def.Template, -1) {
		if !declared[match[1]] {
			undeclaredSet[match[1]] = true
		}
	}

	var missing []string
	for _, name := range def.Variables {
		if _, ok := vars[name]; !ok {
			missing = append(missing, name)
		}
	}

	if len(missing) > 0 || len(undeclaredSet) > 0 {
		undeclared := make([]string, 0, len(undeclaredSet))
		for name := range undeclaredSet {
			undeclared = append(undeclared, name)
		}
		sort.Strings(undeclared)
		return "", &RenderError{
			Task:       def.Task,
			Version:    def.Version.String(),
			Missing:    missing,
			Undeclared: undeclared,
		}
	}

	rendered := placeholderRe.ReplaceAllStringFunc(def.Template, func(match string) string {
		name := match[1 : len(match)-1]
		return vars[name]
	})
	return rendered, nil
}
