package domain

import (
	"errors"
	"strings"
)

// ClassificationSchema is the versioned enumeration of recognized document
// categories. The same instance constrains the external request and validates
// its response; requester and validator must never hold diverging copies.
type ClassificationSchema struct {
	Version    string
	Categories []string
}

// NewClassificationSchema builds a schema from a version tag and a category
// list. Blank entries are dropped and duplicates collapsed; an effectively
// empty enumeration is rejected.
func NewClassificationSchema(version string, categories []string) (ClassificationSchema, error) {
	version = strings.TrimSpace(version)
	if version == "" {
		return ClassificationSchema{}, errors.New("schema version is required")
	}

	seen := make(map[string]struct{}, len(categories))
	cleaned := make([]string, 0, len(categories))
	for _, category := range categories {
		category = strings.TrimSpace(category)
		if category == "" {
			continue
		}
		if _, ok := seen[category]; ok {
			continue
		}
		seen[category] = struct{}{}
		cleaned = append(cleaned, category)
	}
	if len(cleaned) == 0 {
		return ClassificationSchema{}, errors.New("schema requires at least one category")
	}

	return ClassificationSchema{Version: version, Categories: cleaned}, nil
}

// DefaultClassificationSchema is the built-in category set.
func DefaultClassificationSchema() ClassificationSchema {
	return ClassificationSchema{
		Version: "v1",
		Categories: []string{
			"drivers_licence",
			"bank_statement",
			"invoice",
			"unknown file",
		},
	}
}

// Contains reports membership of a category in the enumeration.
func (s ClassificationSchema) Contains(category string) bool {
	for _, candidate := range s.Categories {
		if candidate == category {
			return true
		}
	}
	return false
}
