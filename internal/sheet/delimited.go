package sheet

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

// readDelimited reads every record of a delimited text export. Records may
// have differing lengths; quotes are parsed leniently because form exports
// often contain stray quotes in titles.
func readDelimited(ctx context.Context, r io.Reader, comma rune) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = false

	var records [][]string
	for line := 1; ; line++ {
		if line%ContextCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("read cancelled at line %d: %w", line, err)
			}
		}

		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			if errors.Is(err, ErrTooLarge) {
				return nil, err
			}
			return nil, fmt.Errorf("invalid csv: %w", err)
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, ErrEmptyFile
	}
	return records, nil
}
