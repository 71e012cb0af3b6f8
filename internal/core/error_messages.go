// Package core provides the business logic for building a conference program.
//
// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support reference.
// When an organizer hits an error, the code points at the fix for the spreadsheet.
//
// # Validation Errors (VAL001-VAL099)
//
//	VAL001 - Invalid time: a talk's time cell is not "HH:MM - HH:MM", empty or TBA
//	         Action: Fix the time cell of the named talk
//	         Sentinel: schedule.ErrInvalidTime
//
//	VAL002 - Unknown day: a talk's day cell does not start with a configured day code
//	         Action: Use one of the configured day names or add the day to the event
//	         Sentinel: schedule.ErrUnknownDay
//
//	VAL004 - Missing column: a required column is missing from the spreadsheet
//	         Action: Check that Timestamp, Authors, Affiliations, type and Title exist
//	         Sentinel: ErrMissingColumns
//
// # Configuration Errors (CFG001-CFG099)
//
//	CFG001 - Invalid day table: the event's day list cannot be parsed
//	         Action: Use CODE=YYYY-MM-DD entries separated by commas
//	         Sentinel: schedule.ErrDayTable
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large          Patterns: "file too large"
//	FILE002 - Unsupported format      Patterns: "unsupported file format"
//	FILE003 - Encoding error          Patterns: "encoding error"
//	FILE004 - No file                 Patterns: "no file provided"
//	FILE005 - Empty file              Patterns: "empty file"
//	FILE006 - File not found          Sentinel: os.ErrNotExist; Patterns: "no such file"
//	FILE007 - Invalid CSV             Patterns: "invalid csv"
//	FILE008 - Sheet not found         Patterns: "sheet not found"
//
// # Request Errors (UPL003-UPL005, RATE001)
//
//	UPL003 - Server busy              Patterns: "too many concurrent previews"
//	UPL004 - Request cancelled        Patterns: "context canceled"
//	UPL005 - Request timeout          Patterns: "context deadline exceeded"
//	RATE001 - Rate limited            Patterns: "rate limit"
//
// # Default Error (ERR000)
//
// Fallback when nothing matches. Check the logs for the technical error.
//
// # Matching
//
// Sentinel errors are matched with errors.Is first. Remaining errors are
// matched case-insensitively with strings.Contains; the first pattern wins.
package core

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/JonMunkholm/confprogram/internal/schedule"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type sentinelMessage struct {
	err error
	msg UserMessage
}

// sentinelMessages are checked in order with errors.Is.
var sentinelMessages = []sentinelMessage{
	{
		err: schedule.ErrInvalidTime,
		msg: UserMessage{
			Message: "A talk has a time that cannot be read",
			Action:  "Use HH:MM - HH:MM, leave the cell empty, or write TBA",
			Code:    "VAL001",
		},
	},
	{
		err: schedule.ErrUnknownDay,
		msg: UserMessage{
			Message: "A talk is scheduled on a day the event does not have",
			Action:  "Use one of the configured day names or add the day to the event",
			Code:    "VAL002",
		},
	},
	{
		err: ErrMissingColumns,
		msg: UserMessage{
			Message: "Required column is missing from the spreadsheet",
			Action:  "Check that Timestamp, Authors, Affiliations, type and Title columns exist",
			Code:    "VAL004",
		},
	},
	{
		err: os.ErrNotExist,
		msg: UserMessage{
			Message: "The submission spreadsheet was not found",
			Action:  "Check the configured input path",
			Code:    "FILE006",
		},
	},
	{
		err: schedule.ErrDayTable,
		msg: UserMessage{
			Message: "The event day list is invalid",
			Action:  "Use CODE=YYYY-MM-DD entries separated by commas",
			Code:    "CFG001",
		},
	},
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
// The first matching pattern wins, so specific patterns come before general ones.
var errorPatterns = []errorPattern{
	// =========================================================================
	// File Errors (FILE001-FILE008)
	// =========================================================================
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds the maximum upload size",
			Action:  "Remove unused sheets or columns and try again",
			Code:    "FILE001",
		},
	},
	{
		pattern: "unsupported file format",
		msg: UserMessage{
			Message: "File type is not supported",
			Action:  "Export the spreadsheet as .csv, .tsv or .xlsx",
			Code:    "FILE002",
		},
	},
	{
		pattern: "encoding error",
		msg: UserMessage{
			Message: "File contains invalid characters",
			Action:  "Save the file as UTF-8",
			Code:    "FILE003",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Please select a spreadsheet to upload",
			Code:    "FILE004",
		},
	},
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "The spreadsheet is empty",
			Action:  "Export the sheet with its header row and submissions",
			Code:    "FILE005",
		},
	},
	{
		pattern: "no such file",
		msg: UserMessage{
			Message: "The submission spreadsheet was not found",
			Action:  "Check the configured input path",
			Code:    "FILE006",
		},
	},
	{
		pattern: "no input file configured",
		msg: UserMessage{
			Message: "No submission spreadsheet is configured",
			Action:  "Set PROGRAM_INPUT to the exported spreadsheet",
			Code:    "FILE006",
		},
	},
	{
		pattern: "invalid csv",
		msg: UserMessage{
			Message: "File is not a valid CSV",
			Action:  "Ensure quotes are balanced and the delimiter is consistent",
			Code:    "FILE007",
		},
	},
	{
		pattern: "sheet not found",
		msg: UserMessage{
			Message: "The workbook has no sheet with that name",
			Action:  "Pick one of the listed sheets with --sheet or INPUT_SHEET",
			Code:    "FILE008",
		},
	},

	// =========================================================================
	// Request Errors (UPL003-UPL005, RATE001)
	// =========================================================================
	{
		pattern: "too many concurrent previews",
		msg: UserMessage{
			Message: "The server is busy with other previews",
			Action:  "Please wait a moment and upload again",
			Code:    "UPL003",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "UPL004",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try a smaller file or try again later",
			Code:    "UPL005",
		},
	},
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or check the logs",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
//
// Example:
//
//	_, err := core.Classify(table, days, nil)
//	msg := core.MapError(err)
//	// msg.Code == "VAL001" for a malformed time cell
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, sm := range sentinelMessages {
		if errors.Is(err, sm.err) {
			return sm.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether an error maps to a specific code rather than ERR000.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error with its user-facing message.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // User-friendly message for display
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps a technical error to a UserError. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
