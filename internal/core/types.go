// Package core provides the business logic for building a conference program
// from a submission spreadsheet.
// This package has no UI dependencies and can be used by any frontend.
package core

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/JonMunkholm/confprogram/internal/schedule"
)

// Column names of the submission spreadsheet. Lookups are case-insensitive.
const (
	ColTimestamp    = "Timestamp"
	ColTitle        = "Title"
	ColAuthors      = "Authors"
	ColAffiliations = "Affiliations"
	ColType         = "type"
	ColDay          = "day"
	ColTime         = "time"
	ColPosterNumber = "poster number"
)

// Submission types recognised by the classifier. Matching is exact.
const (
	TypeInvited     = "invited"
	TypeContributed = "contributed"
	TypePoster      = "poster"
)

// ListSeparator splits the Authors and Affiliations cells.
const ListSeparator = ";"

// Cell is one spreadsheet value. Valid is false when the cell is missing,
// which is not the same as a present empty string.
type Cell struct {
	Value string
	Valid bool
}

// MarshalJSON encodes a missing cell as null.
func (c Cell) MarshalJSON() ([]byte, error) {
	if !c.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(c.Value)
}

// Text returns a present cell holding s.
func Text(s string) Cell {
	return Cell{Value: s, Valid: true}
}

// Missing is the missing cell.
var Missing = Cell{}

// HeaderIndex maps column names (lowercase) to their position in a record.
type HeaderIndex map[string]int

// Row maps lowercase column names to cells. An absent column reads as missing.
type Row map[string]Cell

// Get returns the cell for a column.
func (r Row) Get(col string) Cell {
	return r[columnKey(col)]
}

// Text returns the value for a column, "" when missing.
func (r Row) Text(col string) string {
	return r.Get(col).Value
}

// Table is a loaded spreadsheet: column names in file order plus data rows.
type Table struct {
	Columns []string
	Rows    []Row

	index HeaderIndex
}

// NewTable creates an empty table with the given header.
func NewTable(header []string) *Table {
	cols := make([]string, len(header))
	for i, h := range header {
		cols[i] = CleanCell(h)
	}
	return &Table{
		Columns: cols,
		index:   MakeHeaderIndex(cols),
	}
}

// AddRecord appends a row built from a raw record. Values are trimmed and
// empty values become missing cells. Short records leave trailing columns
// missing; extra values are dropped. When two headers fold to the same name
// the row holds the column chosen by the header index.
func (t *Table) AddRecord(record []string) {
	if t.index == nil {
		t.index = MakeHeaderIndex(t.Columns)
	}
	row := make(Row, len(t.index))
	for key, i := range t.index {
		if i < len(record) {
			row[key] = ToCell(record[i])
		} else {
			row[key] = Missing
		}
	}
	t.Rows = append(t.Rows, row)
}

// HasColumn reports whether the header contains col.
func (t *Table) HasColumn(col string) bool {
	if t.index == nil {
		t.index = MakeHeaderIndex(t.Columns)
	}
	_, ok := t.index[columnKey(col)]
	return ok
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Submission is one retained row of the spreadsheet with its derived fields.
type Submission struct {
	Row          int       `json:"row"` // 0-based data row in the input table
	Timestamp    string    `json:"timestamp"`
	Title        string    `json:"title"`
	Authors      string    `json:"authors"`
	Affiliations string    `json:"affiliations"`
	AuthorList   []string  `json:"authorlist"`
	AffilList    []string  `json:"affillist"`
	Type         string    `json:"type"`
	Day          string    `json:"day,omitempty"`
	Time         string    `json:"time,omitempty"`
	PosterNumber string    `json:"poster_number,omitempty"`
	Start        time.Time `json:"start,omitzero"`
	End          time.Time `json:"end,omitzero"`
	Fields       Row       `json:"fields"`
}

// Kind classifies a submission by its type cell.
type Kind int

const (
	KindUnclassified Kind = iota
	KindTalk
	KindPoster
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindTalk:
		return "talk"
	case KindPoster:
		return "poster"
	default:
		return "unclassified"
	}
}

// Kind returns whether the submission is a talk, a poster, or neither.
func (s Submission) Kind() Kind {
	switch s.Type {
	case TypeInvited, TypeContributed:
		return KindTalk
	case TypePoster:
		return KindPoster
	default:
		return KindUnclassified
	}
}

// Slot returns the schedule slot computed for a talk, zero if none was.
func (s Submission) Slot() schedule.Slot {
	return schedule.Slot{Start: s.Start, End: s.End}
}

// Result holds the two ordered collections produced by Classify.
type Result struct {
	Talks   []Submission `json:"talks"`
	Posters []Submission `json:"posters"`
}

func columnKey(col string) string {
	return strings.ToLower(strings.TrimSpace(col))
}
