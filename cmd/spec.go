package cmd

import "strings"

// RelationSpec is the parsed form of the RELATION[(COL,COL,...)] argument.
// It is immutable after parsing.
type RelationSpec struct {
	Name    string
	Columns []string
}

// ParseRelationSpec splits a relation token into the relation name and an
// explicit column list. A trailing parenthesized suffix holds the columns;
// without one the whole token is the relation name and the column list is
// empty. Column name syntax is not validated here: query construction
// rejects malformed identifiers.
func ParseRelationSpec(token string) (RelationSpec, error) {
	if token == "" {
		return RelationSpec{}, ErrRelationRequired
	}

	if strings.HasSuffix(token, ")") {
		if open := strings.Index(token, "("); open >= 0 {
			spec := RelationSpec{Name: token[:open]}
			if inner := token[open+1 : len(token)-1]; inner != "" {
				spec.Columns = strings.Split(inner, ",")
			}
			return spec, nil
		}
	}

	return RelationSpec{Name: token}, nil
}
