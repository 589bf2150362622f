package querybuilder

import (
	"fmt"
	"reflect"
	"strings"
)

// InsertRows builds a multi-row insert from structs tagged with `db`.
// Every row must expose the same column set; fields tagged "-" or untagged are skipped.
func InsertRows[T any](table string, rows []T) (*InsertBuilder, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("insert rows are required")
	}

	builder := InsertInto(table)
	for idx, row := range rows {
		cols, vals, err := columnsAndValuesFromModel(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", idx, err)
		}
		if idx == 0 {
			builder.Columns(cols...)
		}
		builder.Values(vals...)
	}

	return builder, nil
}

func InsertModel(table string, model any, suffix string) (string, []any, error) {
	cols, vals, err := columnsAndValuesFromModel(model)
	if err != nil {
		return "", nil, err
	}
	return InsertInto(table).
		Columns(cols...).
		Values(vals...).
		Suffix(suffix).
		ToSQL()
}

func columnsAndValuesFromModel(model any) ([]string, []any, error) {
	value := reflect.ValueOf(model)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return nil, nil, fmt.Errorf("model cannot be nil")
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return nil, nil, fmt.Errorf("model must be struct, got %s", value.Kind())
	}

	typ := value.Type()
	cols := make([]string, 0, typ.NumField())
	vals := make([]any, 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		col := strings.TrimSpace(strings.Split(field.Tag.Get("db"), ",")[0])
		if col == "" || col == "-" {
			continue
		}
		cols = append(cols, col)
		vals = append(vals, value.Field(i).Interface())
	}

	if len(cols) == 0 {
		return nil, nil, fmt.Errorf("model has no db columns")
	}
	return cols, vals, nil
}

// ModelColumns lists the db columns InsertRows would emit for model.
func ModelColumns(model any) ([]string, error) {
	cols, _, err := columnsAndValuesFromModel(model)
	return cols, err
}
