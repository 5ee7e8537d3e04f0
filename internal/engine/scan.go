package engine

import (
	"regexp"
	"strings"
)

var (
	// \b keeps the exponent of literals like 1e-3 from matching as a name.
	identPattern = regexp.MustCompile(`\b[A-Za-z_][A-Za-z0-9_]*`)
	forcePattern = regexp.MustCompile(`^f[0-9]*$`)
)

// requiredVariables extracts the variable names an assignment depends on:
// every identifier appearing on a right-hand side of "variable = expression
// [; aux = expression]..." minus the names defined by the assignment itself
// and function call targets.
func requiredVariables(variable, expression string) []string {
	defined := map[string]bool{variable: true}
	var rhs []string
	for _, part := range strings.Split(expression, ";") {
		if name, expr, ok := strings.Cut(part, "="); ok {
			defined[strings.TrimSpace(name)] = true
			rhs = append(rhs, expr)
		} else {
			rhs = append(rhs, part)
		}
	}

	seen := make(map[string]bool)
	var names []string
	for _, expr := range rhs {
		for _, loc := range identPattern.FindAllStringIndex(expr, -1) {
			name := expr[loc[0]:loc[1]]
			if isCall(expr, loc[1]) {
				continue
			}
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}

	var required []string
	for _, name := range names {
		if !defined[name] {
			required = append(required, name)
		}
	}
	return required
}

// isCall reports whether the identifier ending at offset end is immediately
// followed by an opening parenthesis, i.e. is a function name.
func isCall(expr string, end int) bool {
	for _, r := range expr[end:] {
		if r == ' ' || r == '\t' {
			continue
		}
		return r == '('
	}
	return false
}

// referencesForce reports whether any required name is a force built-in
// (f, f0, f1, ...).
func referencesForce(names []string) bool {
	for _, name := range names {
		if forcePattern.MatchString(name) {
			return true
		}
	}
	return false
}
