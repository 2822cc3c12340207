package rules

import "fmt"

// ConfigValidationError rejects a rule set before anything is mutated.
type ConfigValidationError struct {
	Key    string
	ID     string
	Reason string
}

func (e *ConfigValidationError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("invalid %s rule: %s", e.Key, e.Reason)
	}
	return fmt.Sprintf("the %s %q %s", e.Key, e.ID, e.Reason)
}

// RouteMismatchError is raised when the canonical route of a line and
// direction already exists with another line or direction.
type RouteMismatchError struct {
	RouteID  string
	Field    string
	Expected string
	Actual   string
}

func (e *RouteMismatchError) Error() string {
	return fmt.Sprintf("route %q already exists in %s %q, expected %q", e.RouteID, e.Field, e.Actual, e.Expected)
}
