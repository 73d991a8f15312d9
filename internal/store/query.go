package store

import (
	"fmt"
	"strings"
)

// Pagination and sort bounds shared by every list endpoint.
const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100

	SortAsc  = "asc"
	SortDesc = "desc"
)

// Op selects how a predicate compares its column against the bound value.
type Op int

const (
	// OpEq matches rows where the column equals the value.
	OpEq Op = iota
	// OpContains matches rows where the column contains the value as a
	// case-insensitive substring.
	OpContains
	// OpGte matches rows where the column is >= the value.
	OpGte
	// OpLte matches rows where the column is <= the value.
	OpLte
)

// Predicate is one filter criterion. With more than one column the
// clause matches if any column matches; it still counts as a single
// criterion and binds a single parameter.
type Predicate struct {
	Columns []string
	Op      Op
	Value   any
}

// Criteria carries the optional filter, sort, and pagination inputs of
// a list request. Predicates holds one entry per criterion the caller
// set; absent criteria contribute nothing.
type Criteria struct {
	Predicates []Predicate
	Sort       string
	Direction  string
	Page       int
	Limit      int
}

// ListQuery describes a resource table for the query builder. Sortable
// maps API sort names to column names; anything outside the map is
// rejected, never interpolated.
type ListQuery struct {
	Table       string
	Columns     []string
	Sortable    map[string]string
	DefaultSort string
}

// BuiltQuery holds the assembled statements for one list request. Query
// selects the page; Count computes the total over the identical
// predicate set without limit/offset.
type BuiltQuery struct {
	Query     string
	QueryArgs []any
	Count     string
	CountArgs []any
}

// Build validates the criteria and assembles the SELECT and COUNT
// statements. Every variable value is bound as a positional parameter;
// the only text spliced into the statement comes from the allow-listed
// column names. Validation failures are returned before any SQL is
// produced.
func (q ListQuery) Build(c Criteria) (BuiltQuery, error) {
	if c.Page < 1 {
		return BuiltQuery{}, &ValidationError{Field: "page", Message: "must be at least 1"}
	}
	if c.Limit < 1 || c.Limit > MaxLimit {
		return BuiltQuery{}, &ValidationError{Field: "limit", Message: fmt.Sprintf("must be between 1 and %d", MaxLimit)}
	}

	sortName := c.Sort
	if sortName == "" {
		sortName = q.DefaultSort
	}
	sortColumn, ok := q.Sortable[sortName]
	if !ok {
		return BuiltQuery{}, &ValidationError{Field: "sort", Message: fmt.Sprintf("unsupported sort field %q", c.Sort)}
	}

	direction := c.Direction
	if direction == "" {
		direction = SortDesc
	}
	switch direction {
	case SortAsc:
		direction = "ASC"
	case SortDesc:
		direction = "DESC"
	default:
		return BuiltQuery{}, &ValidationError{Field: "order", Message: `must be "asc" or "desc"`}
	}

	where, args, err := buildWhere(c.Predicates)
	if err != nil {
		return BuiltQuery{}, err
	}

	countArgs := make([]any, len(args))
	copy(countArgs, args)

	var sel strings.Builder
	fmt.Fprintf(&sel, "SELECT %s FROM %s%s", strings.Join(q.Columns, ", "), q.Table, where)
	fmt.Fprintf(&sel, " ORDER BY %s %s", sortColumn, direction)
	offset := (c.Page - 1) * c.Limit
	fmt.Fprintf(&sel, " OFFSET $%d LIMIT $%d", len(args)+1, len(args)+2)
	args = append(args, offset, c.Limit)

	count := fmt.Sprintf("SELECT COUNT(1) FROM %s%s", q.Table, where)

	return BuiltQuery{
		Query:     sel.String(),
		QueryArgs: args,
		Count:     count,
		CountArgs: countArgs,
	}, nil
}

// buildWhere renders the predicate set. Each predicate contributes
// exactly one ANDed clause binding exactly one parameter.
func buildWhere(predicates []Predicate) (string, []any, error) {
	if len(predicates) == 0 {
		return "", nil, nil
	}

	var where strings.Builder
	where.WriteString(" WHERE 1=1")
	args := make([]any, 0, len(predicates))

	for _, p := range predicates {
		if len(p.Columns) == 0 {
			return "", nil, &ValidationError{Field: "filter", Message: "predicate has no column"}
		}

		argIndex := len(args) + 1
		switch p.Op {
		case OpEq:
			args = append(args, p.Value)
			where.WriteString(clause(p.Columns, "%s = $%d", argIndex))
		case OpContains:
			args = append(args, "%"+fmt.Sprint(p.Value)+"%")
			where.WriteString(clause(p.Columns, "%s ILIKE $%d", argIndex))
		case OpGte:
			args = append(args, p.Value)
			where.WriteString(clause(p.Columns, "%s >= $%d", argIndex))
		case OpLte:
			args = append(args, p.Value)
			where.WriteString(clause(p.Columns, "%s <= $%d", argIndex))
		default:
			return "", nil, &ValidationError{Field: "filter", Message: "unsupported operator"}
		}
	}

	return where.String(), args, nil
}

func clause(columns []string, format string, argIndex int) string {
	if len(columns) == 1 {
		return " AND " + fmt.Sprintf(format, columns[0], argIndex)
	}
	parts := make([]string, len(columns))
	for i, col := range columns {
		parts[i] = fmt.Sprintf(format, col, argIndex)
	}
	return " AND (" + strings.Join(parts, " OR ") + ")"
}
