package core

// validation.go checks a loaded table before classification.
//
// Only the header is validated. Row content problems (bad type, odd poster
// numbers) are data-quality issues and are reported by Classify instead.

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingColumns is returned when required columns are absent.
var ErrMissingColumns = errors.New("missing required column")

// FieldSpec describes one column of the submission spreadsheet.
type FieldSpec struct {
	Name     string // Column header name (case-insensitive)
	Required bool   // Column must exist in the header
	Label    string // Short description for help output
}

// SubmissionFieldSpecs lists the columns the classifier reads.
var SubmissionFieldSpecs = []FieldSpec{
	{Name: ColTimestamp, Required: true, Label: "submission time; rows without it are dropped"},
	{Name: ColAuthors, Required: true, Label: "';'-separated author list"},
	{Name: ColAffiliations, Required: true, Label: "';'-separated affiliation list"},
	{Name: ColType, Required: true, Label: "invited, contributed or poster"},
	{Name: ColTitle, Required: true, Label: "title of the contribution"},
	{Name: ColDay, Label: "day name; first three letters are the day code"},
	{Name: ColTime, Label: "time range HH:MM - HH:MM, empty or TBA"},
	{Name: ColPosterNumber, Label: "assigned poster number"},
}

// RequiredColumns returns the names of the required columns.
func RequiredColumns() []string {
	var cols []string
	for _, spec := range SubmissionFieldSpecs {
		if spec.Required {
			cols = append(cols, spec.Name)
		}
	}
	return cols
}

// ValidateHeaders checks that all required columns exist in the header.
// Returns a mapping from column name to index, or an error listing missing columns.
func ValidateHeaders(headers []string) (HeaderIndex, error) {
	idx := MakeHeaderIndex(headers)
	var missing []string

	for _, col := range RequiredColumns() {
		if _, ok := idx[strings.ToLower(col)]; !ok {
			missing = append(missing, col)
		}
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	return idx, nil
}
