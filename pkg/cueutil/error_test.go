// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"strings"
	"testing"
)

func TestFormatError_Nil(t *testing.T) {
	t.Parallel()
	if err := FormatError(nil, "f.cue"); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}

func TestFormatError_NonCUEError(t *testing.T) {
	t.Parallel()
	base := errors.New("boom")
	err := FormatError(base, "f.cue")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "f.cue") || !strings.Contains(err.Error(), "boom") {
		t.Errorf("unexpected message: %v", err)
	}
	if !errors.Is(err, base) {
		t.Error("expected wrapped error to match errors.Is")
	}
}

func TestFormatPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path []string
		want string
	}{
		{"empty", nil, ""},
		{"single", []string{"tasks"}, "tasks"},
		{"nested", []string{"tasks", "test", "script"}, "tasks.test.script"},
		{"array index", []string{"deps", "0"}, "deps[0]"},
		{"index then field", []string{"tasks", "1", "name"}, "tasks[1].name"},
		{"leading numeric stays a field", []string{"0", "x"}, "0.x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := formatPath(tt.path); got != tt.want {
				t.Errorf("formatPath(%v) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}
