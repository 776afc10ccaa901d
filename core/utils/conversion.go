package utils

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// ToInt converts a loosely typed catalog value to int.
// Numbers of any width are truncated, numeric text may carry surrounding
// whitespace or a fractional part, and anything unparsable yields 0.
func ToInt(val any) int {
	switch v := val.(type) {
	case nil:
		return 0
	case int:
		return v
	case json.Number:
		return parseInt(v.String())
	case string:
		return parseInt(v)
	case []byte:
		return parseInt(string(v))
	}

	rv := reflect.ValueOf(val)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return int(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return int(rv.Float())
	}
	return parseInt(fmt.Sprint(val))
}

func parseInt(s string) int {
	s = strings.TrimSpace(s)
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}

// ToString converts a catalog value to string. Nil becomes "".
func ToString(val any) string {
	switch v := val.(type) {
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

// ToBool reports whether a catalog flag is set: true, 1, "1" or "true".
func ToBool(val any) bool {
	switch v := val.(type) {
	case nil:
		return false
	case bool:
		return v
	case string, []byte, json.Number:
		s := strings.TrimSpace(ToString(v))
		return s == "1" || strings.EqualFold(s, "true")
	}
	switch reflect.ValueOf(val).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return ToInt(val) == 1
	}
	return false
}
