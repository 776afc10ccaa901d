package models

import (
	"fmt"
	"strings"
)

// Variant is a voice option for which a separate artifact may exist.
type Variant string

const (
	VariantMale    Variant = "male"
	VariantFemale  Variant = "female"
	VariantNeutral Variant = "neutral"
)

// AllVariants lists every known variant in canonical order.
var AllVariants = []Variant{VariantMale, VariantFemale, VariantNeutral}

// ParseVariant parses a variant name case-insensitively.
func ParseVariant(s string) (Variant, error) {
	v := Variant(strings.ToLower(strings.TrimSpace(s)))
	switch v {
	case VariantMale, VariantFemale, VariantNeutral:
		return v, nil
	}
	return "", fmt.Errorf("unknown voice variant %q", s)
}

// ParseVariants parses a comma separated list, dropping duplicates and blanks.
func ParseVariants(list string) ([]Variant, error) {
	var out []Variant
	seen := make(map[Variant]bool)
	for _, part := range strings.Split(list, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		v, err := ParseVariant(part)
		if err != nil {
			return nil, err
		}
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out, nil
}
