package core

// # Error Codes Reference
//
// User-facing messages carry a code that users can quote to support.
//
//	FORM001 - Validation failed: some fields need attention
//	FORM002 - Unknown form: the form is not configured
//	FILE001 - File too large: the file exceeds the preview limit
//	FILE002 - Invalid file type: only images can be previewed
//	FILE003 - No file: nothing was selected
//	FILE004 - Unreadable file: the upload could not be read
//	TBL001  - Unknown table: the table is not configured
//	TBL002  - Missing table data: the source table does not exist
//	UPL001  - System busy: too many previews in progress
//	UPL002  - Request cancelled
//	UPL003  - Request timeout
//	RATE001 - Rate limited: too many requests
//	DB001   - Connection refused
//	DB002   - Connection reset
//	DB003   - Timeout
//	ERR000  - Anything else; check the logs for the technical error
//
// Patterns are matched case-insensitively with strings.Contains and the
// first match wins, so specific patterns come before general ones.

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// Forms
	{"validation failed", UserMessage{"Some fields need attention", "Correct the highlighted fields and submit again", "FORM001"}},
	{"unknown form", UserMessage{"Form not found", "Check the form address", "FORM002"}},

	// Files
	{"file size too large", UserMessage{"File is too large to preview", "Select a smaller image", "FILE001"}},
	{"invalid file type", UserMessage{"This file type cannot be previewed", "Please select a JPEG, PNG or GIF image", "FILE002"}},
	{"no file provided", UserMessage{"No file was selected", "Please select an image to preview", "FILE003"}},
	{"read upload", UserMessage{"The file could not be read", "Try selecting the file again", "FILE004"}},

	// Tables
	{"unknown table", UserMessage{"Table not found", "Check the table address", "TBL001"}},
	{"does not exist", UserMessage{"Table data is not available", "Apply the database schema and try again", "TBL002"}},

	// Request lifecycle
	{"too many previews", UserMessage{"The system is busy", "Please wait a moment and try again", "UPL001"}},
	{"context canceled", UserMessage{"Request was cancelled", "Please try again", "UPL002"}},
	{"context deadline exceeded", UserMessage{"Request timed out", "Please try again", "UPL003"}},

	// Rate limiting
	{"rate limit", UserMessage{"Too many requests", "Please wait a moment before trying again", "RATE001"}},

	// Database
	{"connection refused", UserMessage{"Unable to connect to database", "Please try again in a few moments", "DB001"}},
	{"connection reset", UserMessage{"Database connection was interrupted", "Please try again", "DB002"}},
	{"timeout", UserMessage{"Operation timed out", "Please try again later", "DB003"}},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message. If no
// pattern matches, the ERR000 fallback is returned.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}
	return defaultMessage
}

// FormatUserError formats err as "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err matches a known pattern.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error with its user message.
type UserError struct {
	Technical error
	User      UserMessage
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{Technical: err, User: MapError(err)}
}
