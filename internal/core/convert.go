package core

// convert.go turns raw spreadsheet text into the values the classifier works on.
//
// Spreadsheet exports are messy:
//   - Header cells carry Excel formula prefixes (="Title") or stray quotes
//   - Empty cells must be told apart from cells that hold an empty string
//   - Author and affiliation lists are packed into one ';'-separated cell
//   - Poster numbers are typed by hand and are not always integers

import (
	"strconv"
	"strings"
)

// ToCell converts a raw value to a Cell.
// Returns a missing cell if the value is empty or only whitespace.
func ToCell(s string) Cell {
	s = strings.TrimSpace(s)
	if s == "" {
		return Missing
	}
	return Text(s)
}

// MakeHeaderIndex creates a HeaderIndex from a header row.
// Keys are lowercased for case-insensitive matching. A header spelled exactly
// like one of the submission columns claims its key; otherwise the first
// header that folds to a key wins.
func MakeHeaderIndex(header []string) HeaderIndex {
	idx := make(HeaderIndex, len(header))
	for i, h := range header {
		name := CleanCell(h)
		if !isSubmissionColumn(name) {
			continue
		}
		if _, dup := idx[columnKey(name)]; !dup {
			idx[columnKey(name)] = i
		}
	}
	for i, h := range header {
		key := columnKey(CleanCell(h))
		if _, dup := idx[key]; dup {
			continue
		}
		idx[key] = i
	}
	return idx
}

func isSubmissionColumn(name string) bool {
	for _, spec := range SubmissionFieldSpecs {
		if spec.Name == name {
			return true
		}
	}
	return false
}

// CleanCell removes common export artifacts from a header value:
// - Trims whitespace and embedded line breaks
// - Removes Excel formula prefix (="...")
// - Removes surrounding quotes
func CleanCell(s string) string {
	s = strings.TrimSpace(s)
	s = strings.NewReplacer("\r", "", "\n", " ", "\t", " ").Replace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	s = strings.Trim(s, `"'`)
	return strings.TrimSpace(s)
}

// SplitList splits a packed author or affiliation cell on ';'. Entries are
// not trimmed. A missing cell yields an empty list.
func SplitList(c Cell) []string {
	if !c.Valid {
		return []string{}
	}
	return strings.Split(c.Value, ListSeparator)
}

// PosterInt parses a poster number as an integer.
func PosterInt(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return n, true
}
