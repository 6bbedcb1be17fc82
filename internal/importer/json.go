package importer

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ParseJSON validates and normalizes an exported bookmark file.
//
// name and contentType identify the file; one of them must mark it as
// JSON. Records without a name or an absolute URL are dropped and only
// show up in Metadata as the gap between OriginalCount and ValidCount.
func ParseJSON(name, contentType string, data []byte) (*Result, error) {
	if !isJSONFile(name, contentType) {
		return nil, fmt.Errorf("%w: please select a valid JSON file", ErrFormat)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	root, ok := doc.(map[string]any)
	if !ok {
		return nil, ErrSchema
	}
	items, ok := root["bookmarks"].([]any)
	if !ok {
		return nil, ErrSchema
	}

	candidates := make([]candidate, 0, len(items))
	for _, item := range items {
		record, ok := item.(map[string]any)
		if !ok {
			continue
		}
		candidates = append(candidates, candidate{
			id:          stringField(record, "id"),
			name:        stringField(record, "name"),
			url:         stringField(record, "url"),
			description: stringField(record, "description"),
			commentary:  stringField(record, "commentary"),
			tags:        stringList(record["tags"]),
			favorite:    record["favorite"] == true,
			favicon:     stringField(record, "favicon"),
			createdAt:   stringField(record, "createdAt"),
		})
	}

	return collect(candidates, Metadata{
		OriginalCount: len(items),
		ExportDate:    stringField(root, "exportDate"),
		Version:       stringField(root, "version"),
	})
}

func isJSONFile(name, contentType string) bool {
	mediaType, _, _ := strings.Cut(contentType, ";")
	if strings.EqualFold(strings.TrimSpace(mediaType), "application/json") {
		return true
	}
	return strings.HasSuffix(strings.ToLower(name), ".json")
}

// stringField returns m[key] if it is a string. Numeric ids are kept in
// their decimal form.
func stringField(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

func stringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	result := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			result = append(result, s)
		}
	}
	return result
}
