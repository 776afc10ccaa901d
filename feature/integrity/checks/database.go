package checks

import (
	"fmt"
	"reflect"
	"strings"

	"quest-sync/core/database"

	"gorm.io/gorm"
)

// TableReport is the result of a schema check of one table.
type TableReport struct {
	Table string `json:"table"`
	// MissingRequired lists absent columns the table cannot be read without.
	MissingRequired []string `json:"missing_required"`
	// MissingOptional lists absent columns that read as zero values.
	MissingOptional []string `json:"missing_optional"`
	Status          string   `json:"status"` // "ok", "warning", "error"
}

// CheckTable verifies the table using the gorm model as the source of truth.
// Every column named in a `gorm:"column:..."` tag is expected.
func CheckTable(db *gorm.DB, table string, model any, required []string) (*TableReport, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	expected := modelColumns(model)
	if len(expected) == 0 {
		return nil, fmt.Errorf("model %T declares no columns", model)
	}

	actual, err := database.GetTableColumns(db, table)
	if err != nil {
		return nil, err
	}
	present := make(map[string]bool, len(actual))
	for _, col := range actual {
		present[col.Field] = true
	}
	isRequired := make(map[string]bool, len(required))
	for _, name := range required {
		isRequired[strings.ToLower(name)] = true
	}

	report := &TableReport{
		Table:           table,
		MissingRequired: []string{},
		MissingOptional: []string{},
		Status:          "ok",
	}
	for _, col := range expected {
		if present[col] {
			continue
		}
		if isRequired[col] {
			report.MissingRequired = append(report.MissingRequired, col)
		} else {
			report.MissingOptional = append(report.MissingOptional, col)
		}
	}

	switch {
	case len(report.MissingRequired) > 0:
		report.Status = "error"
	case len(report.MissingOptional) > 0:
		report.Status = "warning"
	}
	return report, nil
}

func modelColumns(model any) []string {
	t := reflect.TypeOf(model)
	if t == nil {
		return nil
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}

	var cols []string
	for i := 0; i < t.NumField(); i++ {
		if col := parseGormColumn(t.Field(i).Tag.Get("gorm")); col != "" {
			cols = append(cols, strings.ToLower(col))
		}
	}
	return cols
}

func parseGormColumn(tag string) string {
	for _, part := range strings.Split(tag, ";") {
		if strings.HasPrefix(part, "column:") {
			return strings.TrimPrefix(part, "column:")
		}
	}
	return ""
}
