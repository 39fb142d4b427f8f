package cmd

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseRelationSpec(t *testing.T) {
	tests := []struct {
		name          string
		token         string
		expectName    string
		expectColumns []string
		expectErr     error
	}{
		{
			name:       "bare relation",
			token:      "sentences",
			expectName: "sentences",
		},
		{
			name:          "relation with columns",
			token:         "sentences(a,b,c)",
			expectName:    "sentences",
			expectColumns: []string{"a", "b", "c"},
		},
		{
			name:          "single column",
			token:         "docs(id)",
			expectName:    "docs",
			expectColumns: []string{"id"},
		},
		{
			name:       "empty column list",
			token:      "docs()",
			expectName: "docs",
		},
		{
			name:      "empty token",
			token:     "",
			expectErr: ErrRelationRequired,
		},
		{
			name:       "parens not at end are part of the name",
			token:      "weird(x)y",
			expectName: "weird(x)y",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := ParseRelationSpec(tt.token)
			if tt.expectErr != nil {
				if !errors.Is(err, tt.expectErr) {
					t.Fatalf("expected error %v, got %v", tt.expectErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if spec.Name != tt.expectName {
				t.Fatalf("expected name %q, got %q", tt.expectName, spec.Name)
			}
			if !reflect.DeepEqual(spec.Columns, tt.expectColumns) {
				t.Fatalf("expected columns %v, got %v", tt.expectColumns, spec.Columns)
			}
		})
	}
}
