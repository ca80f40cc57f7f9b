package errors_test

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/agentstation/decisionsync/pkg/errors"
)

func TestParseError(t *testing.T) {
	err := errors.NewParseError("markdown", "decisions.md", 3, "Adopt X", "empty title")

	if !strings.Contains(err.Error(), "decisions.md") {
		t.Errorf("ParseError should mention the file, got %q", err.Error())
	}
	if !strings.Contains(err.Error(), "Adopt X") {
		t.Errorf("ParseError should mention the title, got %q", err.Error())
	}
	if !errors.IsParseError(err) {
		t.Error("ParseError should match ErrInvalidInput")
	}
	if errors.IsConflict(err) {
		t.Error("ParseError should not match ErrConflict")
	}
}

func TestAmbiguityError(t *testing.T) {
	err := errors.NewAmbiguityError("Launch  v2", "Launch v2", "Launch v2")

	if !errors.IsAmbiguous(err) {
		t.Error("AmbiguityError should match ErrAmbiguous")
	}
	for _, want := range []string{"Launch  v2", "Launch v2"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("AmbiguityError should name both titles, got %q", err.Error())
		}
	}
}

func TestConflictError(t *testing.T) {
	err := &errors.ConflictError{PageID: "123456", BaseVersion: 7}

	if !errors.IsConflict(err) {
		t.Error("ConflictError should match ErrConflict")
	}
	if !strings.Contains(err.Error(), "123456") {
		t.Errorf("ConflictError should mention the page id, got %q", err.Error())
	}
}

func TestNotFoundError(t *testing.T) {
	err := errors.NewNotFoundError("page", "987")

	if !errors.IsNotFound(err) {
		t.Error("NotFoundError should match ErrNotFound")
	}
}

func TestAPIErrorUnwrap(t *testing.T) {
	inner := stderrors.New("connection refused")
	err := errors.WrapAPI("/rest/api/content/1", 0, inner)

	if !stderrors.Is(err, inner) {
		t.Error("wrapped APIError should unwrap to the inner error")
	}
}

func TestAuthenticationError(t *testing.T) {
	err := &errors.AuthenticationError{Endpoint: "example.atlassian.net", Method: "basic", Message: "401"}

	if !errors.IsAuthentication(err) {
		t.Error("AuthenticationError should match ErrAPIKeyRequired")
	}
}

func TestWrapHelpersNilPassthrough(t *testing.T) {
	if errors.WrapIO("read", "x", nil) != nil {
		t.Error("WrapIO(nil) should be nil")
	}
	if errors.WrapAPI("y", 200, nil) != nil {
		t.Error("WrapAPI(nil) should be nil")
	}
	if errors.WrapValidation("f", nil) != nil {
		t.Error("WrapValidation(nil) should be nil")
	}
}
