package importer

import "strings"

const (
	delimiter = ','
	quote     = '"'
)

// SplitLine splits one line into raw fields on delim. A double quote toggles a
// quoted span in which delim is kept literally; quote characters themselves are
// dropped. The last field is always emitted, even when empty.
func SplitLine(line string, delim rune) []string {
	fields := make([]string, 0, strings.Count(line, string(delim))+1)

	var current strings.Builder
	inQuotes := false

	for _, ch := range line {
		switch {
		case ch == quote:
			inQuotes = !inQuotes
		case ch == delim && !inQuotes:
			fields = append(fields, current.String())
			current.Reset()
		default:
			current.WriteRune(ch)
		}
	}

	return append(fields, current.String())
}
