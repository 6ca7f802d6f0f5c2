package query

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/climfin/finance-atlas/pkg/models/domain"
	"github.com/climfin/finance-atlas/pkg/models/store"
)

// DefaultTable is the table the import pipeline creates.
const DefaultTable = "flows"

// Query is a parameterized statement. Args bind to the `?` placeholders of
// SQL in order.
type Query struct {
	SQL  string
	Args []any
}

// Build returns `SELECT * FROM <table> WHERE ...` for the given filters.
// Filter values are bound, never interpolated; the table name is the only
// inline token and must be a plain identifier.
func Build(table string, filters domain.Filters) (Query, error) {
	where, args, err := buildWhere(table, filters)
	if err != nil {
		return Query{}, err
	}
	return Query{
		SQL:  fmt.Sprintf("SELECT *\nFROM %s\n%s", table, where),
		Args: args,
	}, nil
}

// BuildAggregated returns the per-flow summary query: disbursements summed
// per donor, recipient, year, flow and category, largest first.
func BuildAggregated(table string, filters domain.Filters) (Query, error) {
	where, args, err := buildWhere(table, filters)
	if err != nil {
		return Query{}, err
	}

	groupCols := strings.Join([]string{
		store.ColYear,
		store.ColDonorName,
		store.ColDonorCode,
		store.ColRecipientName,
		store.ColRecipientCode,
		store.ColFlowName,
		store.ColMetaCategory,
		store.ColClimateClass,
	}, ", ")

	sql := fmt.Sprintf(`SELECT %[1]s,
	SUM(%[2]s) AS %[3]s
FROM %[4]s
%[5]s
GROUP BY %[1]s
ORDER BY %[3]s DESC`, groupCols, store.ColUSDDisbursement, store.ColTotalDisbursement, table, where)

	return Query{SQL: sql, Args: args}, nil
}

func buildWhere(table string, filters domain.Filters) (string, []any, error) {
	if !store.ValidTableName(table) {
		return "", nil, fmt.Errorf("%w: table name %q", domain.ErrInvalidFilter, table)
	}
	if err := filters.Years.Validate(); err != nil {
		return "", nil, err
	}
	if err := validateDonorTypes(filters.DonorTypes); err != nil {
		return "", nil, err
	}

	var (
		clauses []string
		args    []any
	)
	if filters.Years.IsSingle() {
		clauses = append(clauses, store.ColYear+" = ?")
		args = append(args, filters.Years.From)
	} else {
		clauses = append(clauses, store.ColYear+" >= ? AND "+store.ColYear+" <= ?")
		args = append(args, filters.Years.From, filters.Years.To)
	}

	for _, f := range []struct {
		column string
		values []string
	}{
		{store.ColMetaCategory, filters.Categories},
		{store.ColClimateClass, filters.Subcategories},
		{store.ColFlowName, filters.FlowTypes},
		{store.ColDonorType, filters.DonorTypes},
	} {
		clause, values := membership(f.column, f.values)
		if clause == "" {
			continue
		}
		clauses = append(clauses, clause)
		args = append(args, values...)
	}

	return "WHERE " + strings.Join(clauses, "\n  AND "), args, nil
}

func membership(column string, values []string) (string, []any) {
	switch len(values) {
	case 0:
		return "", nil
	case 1:
		return column + " = ?", []any{values[0]}
	}
	placeholders := make([]string, len(values))
	args := make([]any, len(values))
	for i, v := range values {
		placeholders[i] = "?"
		args[i] = v
	}
	return fmt.Sprintf("%s IN (%s)", column, strings.Join(placeholders, ", ")), args
}

func validateDonorTypes(donorTypes []string) error {
	var invalid []string
	for _, dt := range donorTypes {
		if !domain.IsDonorType(dt) {
			invalid = append(invalid, strconv.Quote(dt))
		}
	}
	if len(invalid) == 0 {
		return nil
	}
	allowed := make([]string, len(domain.DonorTypes))
	for i, dt := range domain.DonorTypes {
		allowed[i] = strconv.Quote(dt)
	}
	return fmt.Errorf("%w: donor types %s, only %s are allowed",
		domain.ErrInvalidFilter, strings.Join(invalid, ", "), strings.Join(allowed, ", "))
}

// Inline renders the query with its arguments substituted as SQL literals.
// The result is for display only and is never executed.
func (q Query) Inline() string {
	var (
		b   strings.Builder
		arg int
	)
	for _, r := range q.SQL {
		if r != '?' || arg >= len(q.Args) {
			b.WriteRune(r)
			continue
		}
		b.WriteString(literal(q.Args[arg]))
		arg++
	}
	return b.String()
}

func literal(v any) string {
	switch t := v.(type) {
	case string:
		return "'" + strings.ReplaceAll(t, "'", "''") + "'"
	case int:
		return strconv.Itoa(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
