package store

import (
	"errors"
	"strings"
	"testing"
)

var testListQuery = ListQuery{
	Table:   "widgets",
	Columns: []string{"id", "name", "kind", "created_at"},
	Sortable: map[string]string{
		"created_at": "created_at",
		"name":       "name",
	},
	DefaultSort: "created_at",
}

func TestBuildDefaults(t *testing.T) {
	built, err := testListQuery.Build(Criteria{Page: 1, Limit: 20})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	want := "SELECT id, name, kind, created_at FROM widgets ORDER BY created_at DESC OFFSET $1 LIMIT $2"
	if built.Query != want {
		t.Fatalf("unexpected query:\n got %q\nwant %q", built.Query, want)
	}
	if len(built.QueryArgs) != 2 || built.QueryArgs[0] != 0 || built.QueryArgs[1] != 20 {
		t.Fatalf("unexpected query args: %v", built.QueryArgs)
	}
	if built.Count != "SELECT COUNT(1) FROM widgets" {
		t.Fatalf("unexpected count query: %q", built.Count)
	}
	if len(built.CountArgs) != 0 {
		t.Fatalf("expected no count args, got %v", built.CountArgs)
	}
}

func TestBuildOffsetFollowsPage(t *testing.T) {
	built, err := testListQuery.Build(Criteria{Page: 3, Limit: 10})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if built.QueryArgs[0] != 20 {
		t.Fatalf("expected offset 20 for page 3 limit 10, got %v", built.QueryArgs[0])
	}
	if built.QueryArgs[1] != 10 {
		t.Fatalf("expected limit 10, got %v", built.QueryArgs[1])
	}
}

func TestBuildOnePredicateOneParameter(t *testing.T) {
	criteria := Criteria{
		Predicates: []Predicate{
			{Columns: []string{"kind"}, Op: OpEq, Value: "gear"},
			{Columns: []string{"name"}, Op: OpContains, Value: "cog"},
		},
		Page:  1,
		Limit: 20,
	}

	built, err := testListQuery.Build(criteria)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	// One bound parameter per predicate, plus offset and limit.
	if len(built.QueryArgs) != 4 {
		t.Fatalf("expected 4 query args, got %v", built.QueryArgs)
	}
	if len(built.CountArgs) != 2 {
		t.Fatalf("expected 2 count args, got %v", built.CountArgs)
	}
	if !strings.Contains(built.Query, "WHERE 1=1 AND kind = $1 AND name ILIKE $2") {
		t.Fatalf("unexpected where clause: %q", built.Query)
	}
	if built.QueryArgs[1] != "%cog%" {
		t.Fatalf("expected contains value to be wrapped, got %v", built.QueryArgs[1])
	}
	if !strings.HasSuffix(built.Count, "WHERE 1=1 AND kind = $1 AND name ILIKE $2") {
		t.Fatalf("count predicates differ from select: %q", built.Count)
	}
}

func TestBuildMultiColumnPredicateSingleParameter(t *testing.T) {
	criteria := Criteria{
		Predicates: []Predicate{
			{Columns: []string{"name", "kind"}, Op: OpContains, Value: "widget"},
		},
		Page:  1,
		Limit: 20,
	}

	built, err := testListQuery.Build(criteria)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !strings.Contains(built.Query, "AND (name ILIKE $1 OR kind ILIKE $1)") {
		t.Fatalf("expected OR group binding one parameter: %q", built.Query)
	}
	if len(built.CountArgs) != 1 {
		t.Fatalf("expected one bound parameter, got %v", built.CountArgs)
	}
}

func TestBuildSortAllowList(t *testing.T) {
	_, err := testListQuery.Build(Criteria{Sort: "kind; DROP TABLE widgets", Page: 1, Limit: 20})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if ve.Field != "sort" {
		t.Fatalf("expected sort field, got %q", ve.Field)
	}
}

func TestBuildRejectsBadInput(t *testing.T) {
	cases := []struct {
		name     string
		criteria Criteria
		field    string
	}{
		{"zero page", Criteria{Page: 0, Limit: 20}, "page"},
		{"zero limit", Criteria{Page: 1, Limit: 0}, "limit"},
		{"limit over max", Criteria{Page: 1, Limit: MaxLimit + 1}, "limit"},
		{"bad direction", Criteria{Page: 1, Limit: 20, Direction: "sideways"}, "order"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := testListQuery.Build(tc.criteria)
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if ve.Field != tc.field {
				t.Fatalf("expected field %q, got %q", tc.field, ve.Field)
			}
		})
	}
}

func TestBuildAscendingDirection(t *testing.T) {
	built, err := testListQuery.Build(Criteria{Sort: "name", Direction: SortAsc, Page: 1, Limit: 20})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !strings.Contains(built.Query, "ORDER BY name ASC") {
		t.Fatalf("unexpected order clause: %q", built.Query)
	}
}
