package view

import "unicode/utf16"

// Palette is the fixed set of tag colors.
var Palette = []string{
	"#3B82F6", // blue
	"#EC4899", // pink
	"#10B981", // green
	"#F59E0B", // amber
	"#EF4444", // red
	"#8B5CF6", // purple
	"#06B6D4", // cyan
	"#84CC16", // lime
}

// TagColor picks a palette color from the sum of the tag's UTF-16 code units.
// The same tag always maps to the same color.
func TagColor(tag string) string {
	sum := 0
	for _, unit := range utf16.Encode([]rune(tag)) {
		sum += int(unit)
	}
	return Palette[sum%len(Palette)]
}
