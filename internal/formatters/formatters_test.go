package formatters

import (
	"strings"
	"testing"

	"careercrafter/internal/types"
)

func sampleConnections() []types.Connection {
	return []types.Connection{
		{
			ID: "c1",
			ConnectedUser: types.ConnectedUser{
				FullName:   "Ada Lovelace",
				Profession: "Engineer",
				Company:    "Analytical Engines",
			},
		},
		{
			ID: "c2",
			ConnectedUser: types.ConnectedUser{
				Name: "grace",
			},
		},
	}
}

func TestConnectionListTextFormatter(t *testing.T) {
	formatter := &ConnectionListTextFormatter{}

	out, err := formatter.Format(sampleConnections())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantLines := []string{
		"1. [c1] Ada Lovelace - Engineer @ Analytical Engines",
		"2. [c2] grace",
	}
	for _, line := range wantLines {
		if !strings.Contains(out, line) {
			t.Errorf("output missing %q:\n%s", line, out)
		}
	}
}

func TestConnectionListTextFormatterEmpty(t *testing.T) {
	formatter := &ConnectionListTextFormatter{}

	out, err := formatter.Format([]types.Connection{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "No connections found.") {
		t.Errorf("expected empty notice, got:\n%s", out)
	}
}

func TestConnectionListMarkdownFormatter(t *testing.T) {
	formatter := &ConnectionListMarkdownFormatter{}

	out, err := formatter.Format(sampleConnections())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantLines := []string{
		"# Connections",
		"1. `c1` **Ada Lovelace - Engineer @ Analytical Engines**",
		"2. `c2` **grace**",
	}
	for _, line := range wantLines {
		if !strings.Contains(out, line) {
			t.Errorf("output missing %q:\n%s", line, out)
		}
	}
}

func TestConnectionListFormatterRejectsWrongType(t *testing.T) {
	formatter := &ConnectionListTextFormatter{}

	if _, err := formatter.Format([]types.User{}); err == nil {
		t.Fatal("expected error for wrong input type, got nil")
	}
}

func TestRegistryDispatchesConnections(t *testing.T) {
	registry := NewFormatterRegistry()

	tests := []struct {
		format string
		want   string
	}{
		{format: "text", want: "=== CONNECTIONS ==="},
		{format: "markdown", want: "# Connections"},
		{format: "json", want: `"connectedUser"`},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			out, err := registry.Format(sampleConnections(), tt.format)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("output missing %q:\n%s", tt.want, out)
			}
		})
	}
}

func TestRegistryUnknownFormat(t *testing.T) {
	registry := NewFormatterRegistry()

	if _, err := registry.Format(sampleConnections(), "yaml"); err == nil {
		t.Fatal("expected error for unknown format, got nil")
	}
}
