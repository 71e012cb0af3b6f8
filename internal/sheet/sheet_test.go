package sheet

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/unicode"

	"github.com/JonMunkholm/confprogram/internal/core"
	"github.com/JonMunkholm/confprogram/internal/schedule"
)

const abstractsCSV = `Timestamp,Title,Authors,Affiliations,type,day,time,poster number
7/2/2018 10:11:12,Spots on M dwarfs,A. Author;B. Author,Uni A;Uni B,poster,,,5
,Unfinished,C. Author,Uni C,poster,,,9
7/3/2018 08:00:00,"Flares, again",D. Author,Uni D,invited,Monday,10:00 - 11:00,
`

func TestRead_CSV(t *testing.T) {
	table, err := Read(context.Background(), strings.NewReader(abstractsCSV), "abstracts.csv", Options{})
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if len(table.Columns) != 8 {
		t.Fatalf("Columns = %v, want 8 columns", table.Columns)
	}
	if table.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", table.Len())
	}

	first := table.Rows[0]
	if got := first.Text("Authors"); got != "A. Author;B. Author" {
		t.Errorf("Authors = %q", got)
	}
	if first.Get("day").Valid {
		t.Error("empty day cell should be missing")
	}
	if got := first.Text("poster number"); got != "5" {
		t.Errorf("poster number = %q, want 5", got)
	}

	if table.Rows[1].Get("Timestamp").Valid {
		t.Error("empty Timestamp should be missing")
	}

	third := table.Rows[2]
	if got := third.Text("Title"); got != "Flares, again" {
		t.Errorf("quoted Title = %q", got)
	}
	if third.Get("poster number").Valid {
		t.Error("trailing empty cell should be missing")
	}
}

func TestRead_CSVClassifies(t *testing.T) {
	table, err := Read(context.Background(), strings.NewReader(abstractsCSV), "abstracts.csv", Options{})
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	result, err := core.Classify(table, schedule.DefaultDayTable(), nil)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if len(result.Talks) != 1 || len(result.Posters) != 1 {
		t.Fatalf("talks=%d posters=%d, want 1 and 1", len(result.Talks), len(result.Posters))
	}
	if result.Talks[0].Start.Hour() != 10 {
		t.Errorf("talk start = %v", result.Talks[0].Start)
	}
}

func TestRead_TSVWithBOM(t *testing.T) {
	data := "\xEF\xBB\xBFTimestamp\tTitle\tAuthors\tAffiliations\ttype\n1\tT\tA\tU\tposter\n"
	table, err := Read(context.Background(), strings.NewReader(data), "export.tsv", Options{})
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if table.Columns[0] != "Timestamp" {
		t.Errorf("first column = %q, want Timestamp (BOM not stripped?)", table.Columns[0])
	}
	if !table.HasColumn("timestamp") {
		t.Error("HasColumn should be case-insensitive")
	}
}

func TestRead_UTF16(t *testing.T) {
	src := "Timestamp,Title,Authors,Affiliations,type\n1,Über Sterne,Müller,Uni,poster\n"
	encoded, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().String(src)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	table, err := Read(context.Background(), strings.NewReader(encoded), "abstracts.csv", Options{})
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got := table.Rows[0].Text("Title"); got != "Über Sterne" {
		t.Errorf("Title = %q, want %q", got, "Über Sterne")
	}
}

func TestRead_SkipsLeadingAndBlankRows(t *testing.T) {
	data := ",,\n\nTimestamp,Title,type\n,,\n1,T,poster\n"
	table, err := Read(context.Background(), strings.NewReader(data), "a.csv", Options{})
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if table.Columns[1] != "Title" {
		t.Errorf("Columns = %v", table.Columns)
	}
	if table.Len() != 1 {
		t.Errorf("Len() = %d, want 1", table.Len())
	}
}

func TestRead_XLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	rows := [][]interface{}{
		{"Timestamp", "Title", "Authors", "Affiliations", "type", "poster number"},
		{"2018-07-02 10:11", "Spots", "A;B", "U1;U2", "poster", 5},
		{"2018-07-02 10:12", "Winds", "C", "U3", "poster", 2},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("SetSheetRow: %v", err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}

	table, err := Read(context.Background(), bytes.NewReader(buf.Bytes()), "abstracts.xlsx", Options{})
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if table.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", table.Len())
	}
	if got := table.Rows[1].Text("poster number"); got != "2" {
		t.Errorf("poster number = %q, want 2", got)
	}
	if got := table.Rows[0].Text("Affiliations"); got != "U1;U2" {
		t.Errorf("Affiliations = %q", got)
	}
}

func TestRead_XLSXMissingSheet(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	if _, err := f.NewSheet("Program"); err != nil {
		t.Fatalf("NewSheet: %v", err)
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}

	_, err = Read(context.Background(), bytes.NewReader(buf.Bytes()), "a.xlsx", Options{Sheet: "Responses"})
	if !errors.Is(err, ErrSheetNotFound) {
		t.Fatalf("Read() error = %v, want ErrSheetNotFound", err)
	}
	if !strings.Contains(err.Error(), "Sheet1, Program") {
		t.Errorf("Read() error = %q, want the available sheets listed", err)
	}
	if got := core.MapError(err).Code; got != "FILE008" {
		t.Errorf("MapError() code = %q, want FILE008", got)
	}
}

func TestRead_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		file    string
		opts    Options
		wantErr error
	}{
		{"unsupported", "a,b", "abstracts.pdf", Options{}, ErrUnsupportedFormat},
		{"empty", "", "abstracts.csv", Options{}, ErrEmptyFile},
		{"blank lines only", "\n\n,,\n", "abstracts.csv", Options{}, ErrEmptyFile},
		{"too large", strings.Repeat("a,b\n", 1000), "abstracts.csv", Options{MaxBytes: 64}, ErrTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(context.Background(), strings.NewReader(tt.data), tt.file, tt.opts)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRead_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var b strings.Builder
	b.WriteString("Timestamp,Title\n")
	for i := 0; i < 3*ContextCheckInterval; i++ {
		b.WriteString("1,T\n")
	}

	_, err := Read(ctx, strings.NewReader(b.String()), "a.csv", Options{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "abstracts.csv")
	if err := os.WriteFile(path, []byte(abstractsCSV), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	table, err := Load(context.Background(), path, Options{})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if table.Len() != 3 {
		t.Errorf("Len() = %d, want 3", table.Len())
	}

	_, err = Load(context.Background(), filepath.Join(t.TempDir(), "nope.csv"), Options{})
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v, want os.ErrNotExist", err)
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name string
		want Format
	}{
		{"a.csv", FormatCSV},
		{"A.CSV", FormatCSV},
		{"a.tsv", FormatTSV},
		{"a.txt", FormatTSV},
		{"responses.xlsx", FormatXLSX},
		{"a.ods", FormatUnknown},
		{"noext", FormatUnknown},
	}
	for _, tt := range tests {
		if got := DetectFormat(tt.name); got != tt.want {
			t.Errorf("DetectFormat(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
