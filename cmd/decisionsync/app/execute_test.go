package app

import (
	"testing"

	"github.com/agentstation/decisionsync/pkg/errors"
)

// TestExitCode verifies the error-class to exit-status mapping.
func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, 0},
		{"parse error", &errors.ParseError{Format: "markdown", Block: 2}, 2},
		{"ambiguity", errors.NewAmbiguityError("Launch  v2", "Launch v2", "Launch v2"), 2},
		{"version conflict", &errors.ConflictError{PageID: "1", BaseVersion: 3}, 3},
		{"auth failure", &errors.AuthenticationError{Method: "basic", Message: "rejected"}, 3},
		{"page not found", errors.NewNotFoundError("page", "99"), 3},
		{"api failure", errors.NewAPIError("/rest/api/content/1", 502, "bad gateway"), 3},
		{"anything else", errors.New("disk full"), 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExitCode(tc.err); got != tc.want {
				t.Errorf("ExitCode() = %d, want %d", got, tc.want)
			}
		})
	}
}
