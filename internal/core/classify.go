package core

// classify.go splits a submission table into talks and posters.
//
// The flow:
//  1. Drop rows without a Timestamp (submissions that were never finalized)
//  2. Derive author and affiliation lists
//  3. Partition by type into talks, posters and unclassified rows
//  4. Order talks by schedule slot, or by type when there is no schedule
//  5. Order posters by (poster number, authors) and check the numbering
//  6. Report unclassified rows
//
// Data-quality problems go to the Reporter and never abort the call. A day
// or time cell the schedule cannot parse aborts the whole call.

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/JonMunkholm/confprogram/internal/schedule"
)

// Classify sorts the rows of table into talks and posters. days resolves the
// day codes of scheduled talks. reporter may be nil.
func Classify(table *Table, days schedule.DayTable, reporter Reporter) (*Result, error) {
	if reporter == nil {
		reporter = Discard
	}

	var talks, posters, unclassified []Submission
	for i, row := range table.Rows {
		if !row.Get(ColTimestamp).Valid {
			continue
		}

		s := newSubmission(i, row)
		switch s.Kind() {
		case KindTalk:
			talks = append(talks, s)
		case KindPoster:
			posters = append(posters, s)
		default:
			unclassified = append(unclassified, s)
		}
	}

	if table.HasColumn(ColDay) && table.HasColumn(ColTime) {
		if err := scheduleTalks(talks, days); err != nil {
			return nil, err
		}
	} else {
		// Descending by type puts invited talks ahead of contributed ones.
		sort.SliceStable(talks, func(i, j int) bool {
			return talks[i].Type > talks[j].Type
		})
	}

	if !table.HasColumn(ColPosterNumber) {
		for i := range posters {
			posters[i].PosterNumber = schedule.TBA
		}
	}
	numeric := sortPosters(posters)
	checkPosterNumbers(posters, numeric, reporter)

	for _, s := range unclassified {
		reporter.Report(unclassifiedDiagnostic(s))
	}

	if talks == nil {
		talks = []Submission{}
	}
	if posters == nil {
		posters = []Submission{}
	}
	return &Result{Talks: talks, Posters: posters}, nil
}

func newSubmission(index int, row Row) Submission {
	return Submission{
		Row:          index,
		Timestamp:    row.Text(ColTimestamp),
		Title:        row.Text(ColTitle),
		Authors:      row.Text(ColAuthors),
		Affiliations: row.Text(ColAffiliations),
		AuthorList:   SplitList(row.Get(ColAuthors)),
		AffilList:    SplitList(row.Get(ColAffiliations)),
		Type:         row.Text(ColType),
		Day:          row.Text(ColDay),
		Time:         row.Text(ColTime),
		PosterNumber: row.Text(ColPosterNumber),
		Fields:       row,
	}
}

// scheduleTalks computes each talk's slot and sorts by start time. The end
// of a slot is informational; a malformed end half leaves End zero.
func scheduleTalks(talks []Submission, days schedule.DayTable) error {
	for i := range talks {
		t := &talks[i]
		code := schedule.DayCode(t.Day)

		start, err := days.Parse(code, t.Time, false)
		if err != nil {
			return fmt.Errorf("schedule talk %q (submitted %s): %w", t.Title, t.Timestamp, err)
		}
		t.Start = start

		if end, err := days.Parse(code, t.Time, true); err == nil {
			t.End = end
		}
	}

	sort.SliceStable(talks, func(i, j int) bool {
		return talks[i].Start.Before(talks[j].Start)
	})
	return nil
}

// sortPosters orders posters by number then author string. Numbers compare
// numerically only when every poster number is an integer. Reports whether
// they were.
func sortPosters(posters []Submission) bool {
	numeric := true
	nums := make([]int, len(posters))
	for i, p := range posters {
		n, ok := PosterInt(p.PosterNumber)
		if !ok {
			numeric = false
			break
		}
		nums[i] = n
	}

	if numeric {
		sort.Stable(postersByNumber{posters: posters, nums: nums})
		return true
	}

	sort.SliceStable(posters, func(i, j int) bool {
		if posters[i].PosterNumber != posters[j].PosterNumber {
			return posters[i].PosterNumber < posters[j].PosterNumber
		}
		return posters[i].Authors < posters[j].Authors
	})
	return false
}

// postersByNumber keeps the parsed numbers aligned with the posters while sorting.
type postersByNumber struct {
	posters []Submission
	nums    []int
}

func (p postersByNumber) Len() int { return len(p.posters) }

func (p postersByNumber) Less(i, j int) bool {
	if p.nums[i] != p.nums[j] {
		return p.nums[i] < p.nums[j]
	}
	return p.posters[i].Authors < p.posters[j].Authors
}

func (p postersByNumber) Swap(i, j int) {
	p.posters[i], p.posters[j] = p.posters[j], p.posters[i]
	p.nums[i], p.nums[j] = p.nums[j], p.nums[i]
}

// checkPosterNumbers reports non-integer numbering and every number shared
// by more than one poster, each with its own count. posters must be sorted.
func checkPosterNumbers(posters []Submission, numeric bool, reporter Reporter) {
	if len(posters) == 0 {
		return
	}
	if !numeric {
		reporter.Report(nonIntegerDiagnostic())
	}

	counts := make(map[string]int)
	var order []string
	for _, p := range posters {
		key := p.PosterNumber
		if numeric {
			n, _ := PosterInt(key)
			key = strconv.Itoa(n)
		}
		if counts[key] == 0 {
			order = append(order, key)
		}
		counts[key]++
	}

	for _, key := range order {
		if counts[key] > 1 {
			reporter.Report(duplicateDiagnostic(key, counts[key]))
		}
	}
}
