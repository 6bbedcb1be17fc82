package importer

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// HomepageEntry is a single bookmark in a homepage bookmarks.yaml.
type HomepageEntry struct {
	Icon        string `yaml:"icon"`
	Href        string `yaml:"href"`
	Description string `yaml:"description"`
}

// HomepageCategory maps a category name to its bookmarks.
// The YAML structure is: - Category: [ - Name: [ { abbr, href, ... } ] ]
type HomepageCategory map[string][]map[string][]HomepageEntry

// HomepageConfig is the root structure of bookmarks.yaml.
type HomepageConfig []HomepageCategory

var templateVar = regexp.MustCompile(`\{\{[^}]+\}\}`)

// ParseHomepage parses a gethomepage bookmarks.yaml file. Category names
// become tags. Template variables ({{HOMEPAGE_VAR_...}}) are blanked, so
// entries whose href depended on one are dropped as invalid.
func ParseHomepage(data []byte) (*Result, error) {
	data = templateVar.ReplaceAll(data, []byte(`""`))

	var config HomepageConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	var candidates []candidate
	for _, category := range config {
		for _, categoryName := range sortedKeys(category) {
			for _, group := range category[categoryName] {
				for _, name := range sortedKeys(group) {
					entries := group[name]
					if len(entries) == 0 {
						continue
					}
					entry := entries[0]

					favicon := ""
					if strings.HasPrefix(entry.Icon, "http://") || strings.HasPrefix(entry.Icon, "https://") {
						favicon = entry.Icon
					}

					candidates = append(candidates, candidate{
						name:        name,
						url:         entry.Href,
						description: entry.Description,
						tags:        []string{categoryName},
						favicon:     favicon,
					})
				}
			}
		}
	}

	return collect(candidates, Metadata{OriginalCount: len(candidates)})
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
