// Package response provides helpers for writing consistent messages back to
// the user of the console.
//
// Every menu action ends with either a success line or an error line.
// Rather than formatting those by hand in each action, we centralise them
// here, together with the JSON writer used by the roster export.
package response

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ─────────────────────────────────────────────────────────────────────────────
// Response is the outcome of a single menu action.
//
// A success carries a Message; an error carries Error. The JSON shape is
// the same one the export writer uses:
//
//	{ "status": "error", "error": "field Email must be a valid email address" }
//
// omitempty drops whichever of Message and Error is unused.
// ─────────────────────────────────────────────────────────────────────────────
type Response struct {
	Status  string `json:"status"`            // "ok" or "error"
	Message string `json:"message,omitempty"` // shown to the user on success
	Error   string `json:"error,omitempty"`   // human-readable error detail
}

// Status string constants — use these instead of raw string literals so
// a typo is caught by the compiler rather than silently printing "eroor".
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// OK wraps a success message.
func OK(format string, args ...any) Response {
	return Response{Status: StatusOK, Message: fmt.Sprintf(format, args...)}
}

// ─────────────────────────────────────────────────────────────────────────────
// GeneralError wraps any Go error into our standard Response shape.
// Use this for store errors (not found, duplicate email) and bad input.
//
// Example usage:
//
//	response.Write(out, response.GeneralError(err))
//
// ─────────────────────────────────────────────────────────────────────────────
func GeneralError(err error) Response {
	return Response{
		Status: StatusError,
		Error:  err.Error(), // .Error() returns the error message string
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// ValidationError converts a slice of validator.FieldError values into
// a single human-readable Response.
//
// The go-playground/validator package returns one FieldError per failing
// struct field. We convert each to a plain English sentence and join them
// with ", " so the user sees a single descriptive error line.
//
// Example output:
//
//	Error: field FirstName is required, field Semester must be at least 1
//
// ─────────────────────────────────────────────────────────────────────────────
func ValidationError(errs validator.ValidationErrors) Response {
	var errMessages []string

	for _, e := range errs {
		switch e.ActualTag() {
		// "required" tag — field was missing or zero-valued
		case "required":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is required", e.Field()))
		// "email" tag — field did not match email format
		case "email":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s must be a valid email address", e.Field()))
		// numeric bounds on Semester and GPA
		case "min", "gte":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s must be at least %s", e.Field(), e.Param()))
		case "max", "lte":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s must be at most %s", e.Field(), e.Param()))
		// Catch-all for any other validation tag
		default:
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is invalid", e.Field()))
		}
	}

	return Response{
		Status: StatusError,
		// strings.Join(slice, sep) concatenates a slice of strings
		// with the given separator between each element.
		Error: strings.Join(errMessages, ", "),
	}
}

// Write prints r as one line: the message on success, "Error: ..." otherwise.
func Write(w io.Writer, r Response) error {
	var err error
	if r.Status == StatusError {
		_, err = fmt.Fprintf(w, "Error: %s\n", r.Error)
	} else {
		_, err = fmt.Fprintln(w, r.Message)
	}
	return err
}

// ─────────────────────────────────────────────────────────────────────────────
// WriteJSON writes data as indented JSON followed by a newline.
//
// Parameters:
//
//	w    — where the export goes (os.Stdout, a file, a buffer in tests)
//	data — any Go value; will be JSON-encoded and written to w
//
// The "any" type (alias for interface{}) means data can be a struct, map,
// slice, or primitive — WriteJSON doesn't care.
// ─────────────────────────────────────────────────────────────────────────────
func WriteJSON(w io.Writer, data any) error {
	// json.NewEncoder(w) streams directly into w, avoiding an intermediate
	// buffer. Encode() appends a newline after the JSON.
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
