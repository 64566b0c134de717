package domain

import "fmt"

// HeaderNotFoundError means the header marker was absent from every line of a
// report. The report is unusable and the run must abort.
type HeaderNotFoundError struct {
	Marker string
}

func (e *HeaderNotFoundError) Error() string {
	return fmt.Sprintf("header row containing %q not found", e.Marker)
}

// MissingColumnError names a required column absent from a frame. Fatal for
// the run.
type MissingColumnError struct {
	Column string
	Frame  string
}

func (e *MissingColumnError) Error() string {
	if e.Frame == "" {
		return fmt.Sprintf("required column %q not found", e.Column)
	}
	return fmt.Sprintf("required column %q not found in %s", e.Column, e.Frame)
}

// EmptyInputError means a report parsed to zero data rows.
type EmptyInputError struct {
	Report string
}

func (e *EmptyInputError) Error() string {
	if e.Report == "" {
		return "report contains no data rows"
	}
	return fmt.Sprintf("%s contains no data rows", e.Report)
}
