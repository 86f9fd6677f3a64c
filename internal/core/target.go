package core

import "fmt"

// MatchTarget identifies which test block an update is meant to affect.
// Feature and TestName are compared case-insensitively against labels
// derived from block titles.
type MatchTarget struct {
	Feature  string
	TestName string
}

// String returns a human-readable form for logs.
func (t MatchTarget) String() string {
	return fmt.Sprintf("%s/%s", t.Feature, t.TestName)
}

// IsZero reports whether the target carries no identifying information.
func (t MatchTarget) IsZero() bool {
	return t.Feature == "" && t.TestName == ""
}
