package core

// error_messages.go maps technical errors to coded, user-facing messages.
//
// When users encounter errors, they can quote the error code to support staff
// for faster diagnosis. Codes are grouped by category:
//
// # Import Errors (IMP001-IMP099)
//
//	IMP001 - Empty file: the file has no data lines
//	         Patterns: "empty file or header only"
//	IMP002 - Missing columns: the header lacks required columns
//	         Patterns: "missing required columns"
//	IMP003 - Invalid rows: one or more data lines broke a rule
//	         Patterns: "invalid rows"
//	IMP004 - Unknown import: no import is registered under the key
//	         Patterns: "unknown import type"
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large          Patterns: "file too large", "request body too large"
//	FILE002 - Not a CSV file          Patterns: "not a csv file"
//	FILE003 - Encoding error          Patterns: "encoding error"
//	FILE004 - No file selected        Patterns: "no file provided"
//
// # Authentication Errors (AUTH001-AUTH099)
//
//	AUTH001 - Wrong email or password Patterns: "invalid credentials"
//	AUTH002 - Session missing/expired Patterns: "session required", "invalid session"
//	AUTH003 - Not allowed             Patterns: "forbidden"
//
// # Clinic Errors (CLN001-CLN099)
//
//	CLN001 - Patient not found        Patterns: "patient not found"
//	CLN002 - Payment not found        Patterns: "payment not found"
//	CLN003 - Therapist not found      Patterns: "therapist not found"
//	CLN004 - Malformed request        Patterns: "invalid request"
//
// # Store Errors (STORE001-STORE099)
//
//	STORE001 - Import could not be saved   Patterns: "import store failure"
//	STORE002 - Database unreachable        Patterns: "connection refused"
//	STORE003 - Duplicate identifier        Patterns: "duplicate key"
//
// STORE001 is matched before every other pattern: a failed save is always
// reported with one generic message, whatever the underlying cause.
//
// # Import Slot Errors (UPL001-UPL099)
//
//	UPL001 - System busy              Patterns: "too many concurrent imports"
//	UPL002 - Request cancelled        Patterns: "context canceled"
//	UPL003 - Request timeout          Patterns: "context deadline exceeded"
//
// # Rate Limiting (RATE001)
//
//	RATE001 - Too many requests       Patterns: "rate limit"
//
// # Default Error (ERR000)
//
// Fallback when no specific pattern matches. Support staff should check the
// application logs for the original technical error.
//
// Patterns are matched case-insensitively with strings.Contains and the first
// match wins, so specific patterns come before general ones.

import (
	"strings"

	"golang.org/x/text/language"

	"github.com/JonMunkholm/clinic/internal/i18n"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// =========================================================================
	// Store failure while saving an import (STORE001)
	// =========================================================================
	{
		pattern: "import store failure",
		msg: UserMessage{
			Message: "The server failed to import the data",
			Action:  "Please try again in a few moments",
			Code:    "STORE001",
		},
	},

	// =========================================================================
	// Import Errors (IMP001-IMP004)
	// =========================================================================
	{
		pattern: "empty file or header only",
		msg: UserMessage{
			Message: "The file is empty or contains only a header",
			Action:  "Upload a file with a header row and at least one data row",
			Code:    "IMP001",
		},
	},
	{
		pattern: "missing required columns",
		msg: UserMessage{
			Message: "The CSV file is missing required columns",
			Action:  "Download the template and check that every column is present",
			Code:    "IMP002",
		},
	},
	{
		pattern: "invalid rows",
		msg: UserMessage{
			Message: "Some rows in the file are invalid",
			Action:  "Fix the listed rows and upload the file again",
			Code:    "IMP003",
		},
	},
	{
		pattern: "unknown import type",
		msg: UserMessage{
			Message: "Unknown import type",
			Action:  "Choose an import type from the list",
			Code:    "IMP004",
		},
	},

	// =========================================================================
	// File Errors (FILE001-FILE004)
	// =========================================================================
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds the maximum size limit",
			Action:  "Split the file into smaller files",
			Code:    "FILE001",
		},
	},
	{
		pattern: "request body too large",
		msg: UserMessage{
			Message: "File exceeds the maximum size limit",
			Action:  "Split the file into smaller files",
			Code:    "FILE001",
		},
	},
	{
		pattern: "not a csv file",
		msg: UserMessage{
			Message: "Only CSV files can be imported",
			Action:  "Save the file in CSV format",
			Code:    "FILE002",
		},
	},
	{
		pattern: "encoding error",
		msg: UserMessage{
			Message: "File contains invalid characters",
			Action:  "Save file as UTF-8 encoding",
			Code:    "FILE003",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Please select a CSV file to upload",
			Code:    "FILE004",
		},
	},

	// =========================================================================
	// Authentication Errors (AUTH001-AUTH003)
	// =========================================================================
	{
		pattern: "invalid credentials",
		msg: UserMessage{
			Message: "Wrong email or password",
			Action:  "Check your sign-in details and try again",
			Code:    "AUTH001",
		},
	},
	{
		pattern: "session required",
		msg: UserMessage{
			Message: "Sign-in required",
			Action:  "Please sign in again",
			Code:    "AUTH002",
		},
	},
	{
		pattern: "invalid session",
		msg: UserMessage{
			Message: "Sign-in required",
			Action:  "Please sign in again",
			Code:    "AUTH002",
		},
	},
	{
		pattern: "forbidden",
		msg: UserMessage{
			Message: "You are not allowed to do this",
			Action:  "This action is available to administrators only",
			Code:    "AUTH003",
		},
	},

	// =========================================================================
	// Clinic Errors (CLN001-CLN004)
	// =========================================================================
	{
		pattern: "patient not found",
		msg: UserMessage{
			Message: "Patient not found",
			Action:  "Refresh the list and try again",
			Code:    "CLN001",
		},
	},
	{
		pattern: "payment not found",
		msg: UserMessage{
			Message: "Payment not found",
			Action:  "Refresh the list and try again",
			Code:    "CLN002",
		},
	},
	{
		pattern: "therapist not found",
		msg: UserMessage{
			Message: "Therapist not found",
			Action:  "Choose a therapist from the list",
			Code:    "CLN003",
		},
	},
	{
		pattern: "invalid request",
		msg: UserMessage{
			Message: "Malformed request",
			Action:  "Check the submitted data",
			Code:    "CLN004",
		},
	},

	// =========================================================================
	// Store Errors (STORE002-STORE003)
	// =========================================================================
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Please try again in a few moments",
			Code:    "STORE002",
		},
	},
	{
		pattern: "duplicate key",
		msg: UserMessage{
			Message: "A record with this ID already exists",
			Action:  "Run the import again",
			Code:    "STORE003",
		},
	},

	// =========================================================================
	// Import Slot Errors (UPL001-UPL003)
	// =========================================================================
	{
		pattern: "too many concurrent imports",
		msg: UserMessage{
			Message: "System is busy processing other imports",
			Action:  "Please wait a moment and try again",
			Code:    "UPL001",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "UPL002",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try a smaller file or check your connection",
			Code:    "UPL003",
		},
	},

	// =========================================================================
	// Rate Limiting (RATE001)
	// =========================================================================
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// If no pattern matches, a generic fallback message with code ERR000 is returned.
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

// Localize translates a mapped message into the given display language.
// Parts without a translation keep their built-in English text.
func Localize(msg UserMessage, tag language.Tag) UserMessage {
	if msg.Code == "" {
		return msg
	}
	if s, ok := i18n.Lookup(tag, "error."+msg.Code+".message"); ok {
		msg.Message = s
	}
	if s, ok := i18n.Lookup(tag, "error."+msg.Code+".action"); ok {
		msg.Action = s
	}
	return msg
}

// MapErrorIn maps err and localizes the result in one step.
func MapErrorIn(err error, tag language.Tag) UserMessage {
	return Localize(MapError(err), tag)
}
