package output

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"
)

func TestExitError(t *testing.T) {
	tests := []struct {
		name        string
		err         *ExitError
		wantCode    int
		wantMessage string
	}{
		{
			name:        "user error",
			err:         NewUserError("source not found: ./export"),
			wantCode:    ExitUserError,
			wantMessage: "source not found: ./export",
		},
		{
			name:        "system error",
			err:         NewSystemError("failed to write ideas.md"),
			wantCode:    ExitSystemError,
			wantMessage: "failed to write ideas.md",
		},
		{
			name:        "user error with cause",
			err:         NewUserErrorWithCause("no .md files under ./export", fs.ErrNotExist),
			wantCode:    ExitUserError,
			wantMessage: "no .md files under ./export",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode {
				t.Errorf("Code = %d, want %d", tt.err.Code, tt.wantCode)
			}
			if tt.err.Error() != tt.wantMessage {
				t.Errorf("Error() = %q, want %q", tt.err.Error(), tt.wantMessage)
			}
		})
	}
}

func TestExitErrorWrapping(t *testing.T) {
	underlying := errors.New("disk full")
	err := NewSystemErrorWithCause("failed to write bundle.md", underlying)

	if !errors.Is(err, underlying) {
		t.Error("errors.Is should find underlying error")
	}

	wrapped := fmt.Errorf("weekly: %w", err)
	if GetExitCode(wrapped) != ExitSystemError {
		t.Errorf("GetExitCode(wrapped) = %d, want %d", GetExitCode(wrapped), ExitSystemError)
	}
}

func TestExitError_WithHint(t *testing.T) {
	err := NewUserErrorWithCause("no matching documents", fs.ErrNotExist).WithHint("check --src")
	if err.Hint != "check --src" || err.Code != ExitUserError {
		t.Errorf("err = %+v", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("WithHint should keep the cause")
	}
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil error", nil, ExitSuccess},
		{"user", NewUserError("bad input"), ExitUserError},
		{"system", NewSystemError("write failed"), ExitSystemError},
		{"plain error defaults to user error", errors.New("unknown flag"), ExitUserError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetExitCode(tt.err); got != tt.expected {
				t.Errorf("GetExitCode() = %d, want %d", got, tt.expected)
			}
		})
	}
}
