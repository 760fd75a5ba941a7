package spreadsheet

import (
	"strings"
)

// MaxSheetNameLength is the spreadsheet format's limit, in characters.
const MaxSheetNameLength = 31

var sheetNameReplacer = strings.NewReplacer(
	"/", "_",
	"\\", "_",
	"?", "_",
	"*", "_",
	"[", "_",
	"]", "_",
	":", "_",
)

// SanitizeSheetName maps an arbitrary label to a legal sheet name: forbidden characters
// become "_" and the result is cut to 31 characters. The mapping is deterministic but
// not injective; callers detect collisions through Workbook.
func SanitizeSheetName(name string) string {
	name = sheetNameReplacer.Replace(name)

	runes := []rune(name)
	if len(runes) > MaxSheetNameLength {
		runes = runes[:MaxSheetNameLength]
	}
	// Names may not start or end with an apostrophe.
	if len(runes) > 0 && runes[0] == '\'' {
		runes[0] = '_'
	}
	if n := len(runes); n > 0 && runes[n-1] == '\'' {
		runes[n-1] = '_'
	}
	if len(runes) == 0 {
		return "_"
	}
	return string(runes)
}
