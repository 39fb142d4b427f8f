package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// RelationSchema describes one relation in the compiled schema artifact.
type RelationSchema struct {
	// VariableType is non-empty for relations declared as random variables.
	VariableType string `json:"variable_type"`
	Columns      map[string]ColumnSchema `json:"columns"`
}

// ColumnSchema carries the schema-declared position of a column.
type ColumnSchema struct {
	Index int `json:"index"`
}

// SchemaProvider exposes relation schemas sourced from a compiled
// configuration artifact.
type SchemaProvider interface {
	// Relation returns the schema for a relation name; the second return
	// value is false when the relation is absent.
	Relation(name string) (RelationSchema, bool)
}

type compiledSchemaFile struct {
	relations map[string]RelationSchema
}

// LoadCompiledSchema reads the compiled schema artifact (run/schema.json
// under the application root).
func LoadCompiledSchema(path string) (SchemaProvider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read compiled schema: %w", err)
	}

	var parsed struct {
		Relations map[string]RelationSchema `json:"relations"`
	}
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse compiled schema %s: %w", path, err)
	}

	return &compiledSchemaFile{relations: parsed.Relations}, nil
}

func (s *compiledSchemaFile) Relation(name string) (RelationSchema, bool) {
	rel, ok := s.relations[name]
	return rel, ok
}

// ResolveColumns resolves the column list for a relation with no explicit
// columns. For a variable relation it returns the declared columns sorted
// ascending by declared index with a trailing "label" column. For anything
// else it returns nil, meaning select all columns.
func ResolveColumns(provider SchemaProvider, relation string) []string {
	rel, ok := provider.Relation(relation)
	if !ok || rel.VariableType == "" {
		return nil
	}

	names := make([]string, 0, len(rel.Columns))
	for name := range rel.Columns {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return rel.Columns[names[i]].Index < rel.Columns[names[j]].Index
	})

	return append(names, "label")
}
