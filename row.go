package dbroute

import (
	"database/sql"
	"strings"
)

// Field one column of a row
type Field struct {
	Name  string
	Value interface{}
}

// Row ordered mapping from column name to value, in result-set column order
type Row []Field

// Get value by column name, exact match first then case-insensitive
func (r Row) Get(name string) (interface{}, bool) {
	for _, f := range r {
		if f.Name == name {
			return f.Value, true
		}
	}
	for _, f := range r {
		if strings.EqualFold(f.Name, name) {
			return f.Value, true
		}
	}
	return nil, false
}

// Columns column names in order
func (r Row) Columns() []string {
	cols := make([]string, len(r))
	for i, f := range r {
		cols[i] = f.Name
	}
	return cols
}

// Map unordered view of the row
func (r Row) Map() map[string]interface{} {
	m := make(map[string]interface{}, len(r))
	for _, f := range r {
		m[f.Name] = f.Value
	}
	return m
}

func scanRows(rows *sql.Rows) ([]Row, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	result := make([]Row, 0)
	for rows.Next() {
		values := make([]interface{}, len(columns))
		ptrs := make([]interface{}, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(Row, len(columns))
		for i, name := range columns {
			// text columns come back as []byte from several drivers
			if b, ok := values[i].([]byte); ok {
				values[i] = string(b)
			}
			row[i] = Field{Name: name, Value: values[i]}
		}
		result = append(result, row)
	}
	return result, rows.Err()
}
