package models

import (
	"strings"

	dErrors "netra/pkg/domain-errors"
)

// PageSize is the fixed number of reports per page.
const PageSize = 8

const (
	MessageUnknownStatus  = "Unknown status filter."
	MessageInvalidPage    = "Page must be a positive integer."
	MessageReportNotFound = "Report not found."
)

// Status is the processing state of a diagnostic report.
type Status string

const (
	StatusDone    Status = "done"
	StatusPending Status = "pending"
	StatusFailed  Status = "failed"
	StatusReview  Status = "review"
)

// StatusFilter selects reports by status. StatusAll matches every report.
type StatusFilter string

const StatusAll StatusFilter = "all"

// ParseStatusFilter accepts "", "all" or a Status, case-insensitively.
func ParseStatusFilter(raw string) (StatusFilter, error) {
	switch s := StatusFilter(strings.ToLower(strings.TrimSpace(raw))); s {
	case "", StatusAll:
		return StatusAll, nil
	case StatusFilter(StatusDone), StatusFilter(StatusPending), StatusFilter(StatusFailed), StatusFilter(StatusReview):
		return s, nil
	default:
		return "", dErrors.New(dErrors.CodeValidation, MessageUnknownStatus)
	}
}

func (f StatusFilter) Matches(s Status) bool {
	return f == StatusAll || Status(f) == s
}

// Report is a past AI diagnostic report. Date is an ISO calendar date
// (YYYY-MM-DD) so lexical order is chronological.
type Report struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Patient    string  `json:"patient"`
	Doctor     string  `json:"doctor"`
	Date       string  `json:"date"`
	Status     Status  `json:"status"`
	Confidence float64 `json:"confidence"`
	Files      int     `json:"files"`
}

// MatchesText reports whether q occurs in the id, title, patient or doctor.
// q must already be lower-cased.
func (r Report) MatchesText(q string) bool {
	if q == "" {
		return true
	}
	haystack := strings.ToLower(strings.Join([]string{r.Title, r.Patient, r.Doctor, r.ID}, " "))
	return strings.Contains(haystack, q)
}

// Query selects one page of reports.
type Query struct {
	Text   string
	Status StatusFilter
	Page   int
}

// Page is one page of a filtered report listing.
type Page struct {
	Reports    []Report `json:"reports"`
	Page       int      `json:"page"`
	PageSize   int      `json:"pageSize"`
	Total      int      `json:"total"`
	TotalPages int      `json:"totalPages"`
}
