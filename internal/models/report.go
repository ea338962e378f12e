package models

import (
	"errors"
	"strings"
)

// ReportRequest holds the three free-text fields of an internship report.
// Requests are transient: they are never persisted and never appended to a
// conversation transcript.
type ReportRequest struct {
	Period       string `json:"period"`
	DurationDays string `json:"duration_days"`
	Description  string `json:"description"`
}

var ErrIncompleteReport = errors.New("period, duration and description are all required")

// Validate requires every field to be non-empty after trimming.
func (r ReportRequest) Validate() error {
	if strings.TrimSpace(r.Period) == "" ||
		strings.TrimSpace(r.DurationDays) == "" ||
		strings.TrimSpace(r.Description) == "" {
		return ErrIncompleteReport
	}
	return nil
}
