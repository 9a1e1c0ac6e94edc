package utils

import (
	"fmt"
	"reflect"
)

// ColumnTag is the struct tag naming a table column.
const ColumnTag = "db"

// columnFields walks the exported, db-tagged fields of a struct or struct
// pointer and calls fn with each column name and value.
func columnFields(input any, fn func(column string, value reflect.Value)) {
	v := reflect.Indirect(reflect.ValueOf(input))
	if v.Kind() != reflect.Struct {
		panic(fmt.Sprintf("utils: expected struct, got %T", input))
	}

	t := v.Type()
	for i := range t.NumField() {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		column := field.Tag.Get(ColumnTag)
		if column == "" || column == "-" {
			continue
		}

		fn(column, v.Field(i))
	}
}

// StructTagValues lists the column names of a row struct in field order.
func StructTagValues(input any) []string {
	var columns []string
	columnFields(input, func(column string, _ reflect.Value) {
		columns = append(columns, column)
	})
	return columns
}

// StructToMap maps column names to field values, ready for an insert.
func StructToMap(input any) map[string]any {
	out := make(map[string]any)
	columnFields(input, func(column string, value reflect.Value) {
		out[column] = value.Interface()
	})
	return out
}

func ErrorWrapOrNil(err error, msg string) error {
	if err == nil {
		return nil
	}
	if msg == "" {
		return err
	}
	return fmt.Errorf("%s: %w", msg, err)
}
