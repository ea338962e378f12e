// Package report produces the fixed-structure internship report document.
package report

import (
	"context"
	"fmt"
	"strings"

	"induchat/internal/models"
	"induchat/internal/service/backend"
)

// Generate builds the report for the request. Without a configured backend it
// succeeds using the local fixed-section template; with one it delegates a
// single prompt to the backend (no conversation history) and returns the raw
// text. Field validation failures and backend failures are returned as errors
// for the caller to surface.
func Generate(ctx context.Context, req models.ReportRequest, cfg models.BackendConfig) (string, error) {
	return generate(ctx, req, cfg, backend.New)
}

func generate(ctx context.Context, req models.ReportRequest, cfg models.BackendConfig, factory func(models.BackendConfig) (backend.Completer, error)) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	cfg = cfg.Normalize()
	if cfg.Kind == models.BackendNone {
		return localTemplate(req), nil
	}

	completer, err := factory(cfg)
	if err != nil {
		return "", fmt.Errorf("report backend: %w", err)
	}
	prompt := fmt.Sprintf("Write a formal internship report with the sections Introduction, "+
		"Main Tasks, Skills Developed, Conclusion and Acknowledgments. The internship period was %s "+
		"and lasted %s days. The work is described as follows: %s",
		strings.TrimSpace(req.Period), strings.TrimSpace(req.DurationDays), strings.TrimSpace(req.Description))

	callCtx, cancel := context.WithTimeout(ctx, backend.CallTimeout)
	defer cancel()

	text, err := completer.Complete(callCtx, []models.Turn{{Role: models.RoleUser, Content: prompt}})
	if err != nil {
		return "", fmt.Errorf("generate report: %w", err)
	}
	return text, nil
}

func localTemplate(req models.ReportRequest) string {
	period := strings.TrimSpace(req.Period)
	duration := strings.TrimSpace(req.DurationDays)
	description := strings.TrimSpace(req.Description)

	var b strings.Builder
	fmt.Fprintf(&b, "Internship Report\n=================\n\n")
	fmt.Fprintf(&b, "Introduction\n------------\n")
	fmt.Fprintf(&b, "This report covers my internship during %s, a period of %s days.\n\n", period, duration)
	fmt.Fprintf(&b, "Main Tasks\n----------\n%s\n\n", description)
	fmt.Fprintf(&b, "Skills Developed\n----------------\n")
	fmt.Fprintf(&b, "Throughout the %s days of the internship I strengthened my technical skills, "+
		"my ability to work in a team and my understanding of professional practice.\n\n", duration)
	fmt.Fprintf(&b, "Conclusion\n----------\n")
	fmt.Fprintf(&b, "The internship in %s was a valuable experience that connected my studies with real work.\n\n", period)
	fmt.Fprintf(&b, "Acknowledgments\n---------------\n")
	fmt.Fprintf(&b, "I thank my supervisors and colleagues for their guidance and support during the internship.\n")
	return b.String()
}
