// Package core provides the business logic for building a conference program
// from an abstract-submission spreadsheet.
//
// This package is the heart of the program builder, containing all domain
// logic independent of any file format, UI or transport layer. It can be used
// by the web server, the CLI, or tests without modification.
//
// # Data Model
//
// A loaded spreadsheet is a [Table] of [Row] values. Every [Cell] knows
// whether it is missing, which matters: rows with a missing Timestamp are
// submissions that were never finalized and are dropped before anything else.
//
// # Classification
//
// [Classify] partitions the retained rows:
//
//   - Talks: type is exactly "invited" or "contributed"
//   - Posters: type is exactly "poster"
//   - Unclassified: everything else, reported but never returned
//
// Talks are ordered by their schedule slot when the table has both a day and
// a time column, using the event's [schedule.DayTable]. Without a schedule,
// invited talks come before contributed ones. Posters are ordered by poster
// number, then by author string.
//
// # Diagnostics
//
// Data-quality problems are sent to a [Reporter] and never abort:
//
//   - Poster numbers that are not all integers
//   - Poster numbers shared by more than one poster, with each number's count
//   - Rows without a valid type, with timestamp, type and title
//
// A day or time cell the schedule cannot parse is fatal to the whole call.
//
// # Service
//
// [Service] wraps Classify with header validation, a run id, structured
// logging and a [RunObserver] hook, and returns a [Program] ready for the
// renderer:
//
//	svc := core.NewService(days, "Cool Stars 20")
//	program, err := svc.Build(ctx, table, "abstracts.csv")
package core
