package flows

import (
	"database/sql"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/climfin/finance-atlas/pkg/models/domain"
)

// row is one result row addressed by column name. Lookups ignore case
// because warehouse drivers may report identifiers upper-cased.
type row struct {
	index  map[string]int
	values []any
}

type columns struct {
	index map[string]int
	count int
}

func columnIndex(rows *sql.Rows, required []string) (columns, error) {
	cols, err := rows.Columns()
	if err != nil {
		return columns{}, fmt.Errorf("read columns: %w", err)
	}

	index := make(map[string]int, len(cols))
	for i, c := range cols {
		index[strings.ToLower(c)] = i
	}

	var missing []string
	for _, c := range required {
		if _, ok := index[strings.ToLower(c)]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return columns{}, fmt.Errorf("%w: %s", domain.ErrMissingColumn, strings.Join(missing, ", "))
	}
	return columns{index: index, count: len(cols)}, nil
}

func scanRow(rows *sql.Rows, cols columns) (row, error) {
	values := make([]any, cols.count)
	ptrs := make([]any, len(values))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return row{}, err
	}
	return row{index: cols.index, values: values}, nil
}

func (r row) get(col string) any {
	return r.values[r.index[strings.ToLower(col)]]
}

func (r row) str(col string) string {
	switch v := r.get(col).(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}

func (r row) int(col string) (int, error) {
	switch v := r.get(col).(type) {
	case int:
		return v, nil
	case int16:
		return int(v), nil
	case int32:
		return int(v), nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	case string:
		return strconv.Atoi(v)
	case []byte:
		return strconv.Atoi(string(v))
	case nil:
		return 0, nil
	default:
		return 0, fmt.Errorf("column %s: unexpected type %T", col, v)
	}
}

// float reads a numeric column, returning ifNull for SQL NULL.
func (r row) float(col string, ifNull float64) (float64, error) {
	switch v := r.get(col).(type) {
	case nil:
		return ifNull, nil
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case int:
		return float64(v), nil
	case string:
		return strconv.ParseFloat(v, 64)
	case []byte:
		return strconv.ParseFloat(string(v), 64)
	default:
		return 0, fmt.Errorf("column %s: unexpected type %T", col, v)
	}
}

// floats reads several numeric columns, stopping at the first error.
func (r row) floats(ifNull float64, cols ...string) ([]float64, error) {
	out := make([]float64, len(cols))
	for i, c := range cols {
		v, err := r.float(c, ifNull)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

var nan = math.NaN()
