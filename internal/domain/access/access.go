// Package access contains the pure access-control evaluator used by route
// guards and view-inclusion checks. Permission requirements are expressed
// either as a single permission, a pipe-delimited string
// ("DEVICE_READ | DEVICE_WRITE"), or an explicit list.
package access

import (
	"strings"

	domainauth "github.com/stardyn/authkit/internal/domain/auth"
)

// Parse normalizes a permission expression string into a list of trimmed,
// non-empty permission tokens. A string containing '|' is split on it; a
// plain string yields a single-element list.
func Parse(expr string) []string {
	if !strings.Contains(expr, "|") {
		return []string{strings.TrimSpace(expr)}
	}
	var perms []string
	for _, p := range strings.Split(expr, "|") {
		p = strings.TrimSpace(p)
		if p != "" {
			perms = append(perms, p)
		}
	}
	return perms
}

// Expression is a required-permission specification attached to a route or
// view. The zero value means "no requirement declared", which is distinct
// from an empty requirement.
type Expression struct {
	present bool
	tokens  []string
}

// Expr builds an Expression from a single or pipe-delimited string.
func Expr(raw string) Expression {
	return Expression{present: true, tokens: Parse(raw)}
}

// ExprList builds an Expression from an explicit permission list. The list
// passes through unchanged; callers are expected to pass clean tokens.
func ExprList(perms ...string) Expression {
	return Expression{present: true, tokens: perms}
}

// IsZero reports whether no requirement was declared.
func (e Expression) IsZero() bool {
	return !e.present
}

// Tokens returns the normalized permission list.
func (e Expression) Tokens() []string {
	return e.tokens
}

// Evaluator decides whether a user satisfies a permission requirement.
// When Active is false the permission engine is bypassed and every check
// passes.
type Evaluator struct {
	// Active toggles the permission engine. Inactive means allow-all.
	Active bool
}

// Evaluate returns true iff the user holds at least one of the required
// permissions (any-of matching). An absent user always fails; an empty
// requirement always fails (deny-by-default, an empty requirement never
// grants access).
func (e Evaluator) Evaluate(user *domainauth.User, required []string) bool {
	if !e.Active {
		return true
	}
	if user == nil || len(required) == 0 {
		return false
	}
	for _, p := range required {
		if user.HasPermission(p) {
			return true
		}
	}
	return false
}

// HasAll is the conjunctive variant of Evaluate: the user must hold every
// required permission. It is not used by the default guard path.
func (e Evaluator) HasAll(user *domainauth.User, required []string) bool {
	if !e.Active {
		return true
	}
	if user == nil || len(required) == 0 {
		return false
	}
	for _, p := range required {
		if !user.HasPermission(p) {
			return false
		}
	}
	return true
}

// Include decides whether a view bound to the given expression should be
// rendered for the user. Same semantics as Evaluate.
func (e Evaluator) Include(user *domainauth.User, expr Expression) bool {
	if !e.Active {
		return true
	}
	return e.Evaluate(user, expr.Tokens())
}
