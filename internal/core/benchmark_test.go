package core

import (
	"fmt"
	"strconv"
	"testing"

	"github.com/JonMunkholm/confprogram/internal/schedule"
)

// syntheticTable builds a spreadsheet with n rows: two thirds posters, the
// rest talks spread over the week, and every tenth poster a duplicate.
func syntheticTable(n int) *Table {
	days := []string{"Mon", "Tue", "Wed", "Thu", "Fri"}
	t := NewTable(fullHeader)
	for i := 0; i < n; i++ {
		ts := fmt.Sprintf("2018-05-%02d %02d:%02d", i%28+1, i%24, i%60)
		if i%3 == 0 {
			day := days[i%len(days)]
			slot := fmt.Sprintf("%02d:%02d - %02d:%02d", 8+i%10, i%4*15, 8+i%10, i%4*15+10)
			t.AddRecord([]string{ts, "Talk " + strconv.Itoa(i), "A;B;C", "U1;U2", TypeContributed, day, slot, ""})
			continue
		}
		num := strconv.Itoa(n - i)
		if i%10 == 1 {
			num = strconv.Itoa(n - i + 1)
		}
		t.AddRecord([]string{ts, "Poster " + strconv.Itoa(i), "D;E", "U3", TypePoster, "", "", num})
	}
	return t
}

// ============================================================================
// Classification Benchmarks
// ============================================================================

// BenchmarkClassify runs the full classification over tables of the size a
// meeting actually receives.
func BenchmarkClassify(b *testing.B) {
	days := schedule.DefaultDayTable()

	for _, n := range []int{100, 1000, 5000} {
		table := syntheticTable(n)
		b.Run(strconv.Itoa(n), func(b *testing.B) {
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := Classify(table, days, Discard); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkClassify_WithCollector includes the cost of keeping diagnostics.
func BenchmarkClassify_WithCollector(b *testing.B) {
	days := schedule.DefaultDayTable()
	table := syntheticTable(1000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Classify(table, days, &Collector{}); err != nil {
			b.Fatal(err)
		}
	}
}

// ============================================================================
// Cell Benchmarks
// ============================================================================

// BenchmarkCleanCell benchmarks cell cleaning with mixed inputs.
// Runs once per cell on load.
func BenchmarkCleanCell(b *testing.B) {
	testCases := []string{
		"simple value",
		"  padded  ",
		`="0042"`,
		" non-breaking ",
		"",
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, tc := range testCases {
			CleanCell(tc)
		}
	}
}

// BenchmarkSplitList benchmarks author list splitting.
func BenchmarkSplitList(b *testing.B) {
	authors := Text("A. One; B. Two; C. Three; D. Four; E. Five")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		SplitList(authors)
	}
}

// BenchmarkPosterInt benchmarks the integer check used to choose the poster sort.
func BenchmarkPosterInt(b *testing.B) {
	testCases := []string{"1", "042", "TBA", "12a", "-3"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, tc := range testCases {
			PosterInt(tc)
		}
	}
}

// ============================================================================
// Header Index Benchmarks
// ============================================================================

// BenchmarkMakeHeaderIndex benchmarks header index creation.
// Called once per spreadsheet.
func BenchmarkMakeHeaderIndex(b *testing.B) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		MakeHeaderIndex(fullHeader)
	}
}

// BenchmarkValidateHeaders benchmarks the required column check.
func BenchmarkValidateHeaders(b *testing.B) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ValidateHeaders(fullHeader); err != nil {
			b.Fatal(err)
		}
	}
}
