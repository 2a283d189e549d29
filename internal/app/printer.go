package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mindbox-cloud/mindbox-config/internal/domain/compiler"
	"github.com/mindbox-cloud/mindbox-config/internal/domain/execution"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true)
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	addStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	skipStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	detailStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).PaddingLeft(6)
)

var title = cases.Title(language.English)

// platformNames holds display names that title casing gets wrong.
var platformNames = map[string]string{"ios": "iOS"}

// DisplayName returns the heading used for a provider or resource name.
func DisplayName(name string) string {
	if n, ok := platformNames[name]; ok {
		return n
	}
	return title.String(name)
}

func statusMark(status compiler.StepStatus, applied bool) string {
	switch {
	case applied:
		return addStyle.Render("+")
	case status == compiler.StatusSatisfied:
		return okStyle.Render("✓")
	case status == compiler.StatusNeedsApply:
		return addStyle.Render("~")
	case status == compiler.StatusFailed:
		return failStyle.Render("✗")
	case status == compiler.StatusSkipped:
		return skipStyle.Render("-")
	default:
		return "?"
	}
}

// PrintPlan outputs the plan grouped by platform.
func (m *Mindbox) PrintPlan(plan *execution.Plan) {
	summary := plan.Summary()

	m.printf("\n%s\n\n", headerStyle.Render("Mindbox configuration plan"))

	if !plan.HasChanges() && summary.Failed == 0 {
		m.printf("No changes needed. Native projects are already configured.\n")
		return
	}

	m.printf("Steps: %d total, %d to apply, %d satisfied, %d skipped\n",
		summary.Total, summary.NeedsApply, summary.Satisfied, summary.Skipped)

	provider := ""
	for _, entry := range plan.Entries() {
		id := entry.Step().ID()
		if id.Provider() != provider {
			provider = id.Provider()
			m.printf("\n%s\n", sectionStyle.Render(DisplayName(provider)))
		}

		m.printf("  %s %s\n", statusMark(entry.Status(), false), id.String())

		diff := entry.Diff()
		if !diff.IsEmpty() {
			m.printf("      %s %s\n", DisplayName(diff.Resource()), diff.Summary())
			for _, line := range diff.Detail() {
				m.printf("%s\n", detailStyle.Render(line))
			}
		}
		if err := entry.Error(); err != nil {
			m.printf("%s\n", detailStyle.Render(err.Error()))
		}
	}

	m.printf("\nRun 'mindbox-config apply' to execute this plan.\n")
}

// PrintResults outputs execution results and a summary line.
func (m *Mindbox) PrintResults(results []execution.StepResult) {
	m.printf("\n%s\n\n", headerStyle.Render("Mindbox configuration results"))

	for _, r := range results {
		line := "  " + statusMark(r.Status(), r.Applied()) + " " + r.StepID().String()
		switch {
		case r.Status() == compiler.StatusFailed:
			line += ": " + r.Error().Error()
		case r.Status() == compiler.StatusSkipped:
			line += " (skipped)"
		case r.Status() == compiler.StatusNeedsApply:
			line += " (needs apply)"
		}
		m.printf("%s\n", line)
	}

	s := Summarize(results)
	parts := []string{
		addStyle.Render(plural(s.Applied, "applied")),
		okStyle.Render(plural(s.Satisfied, "unchanged")),
		skipStyle.Render(plural(s.Skipped, "skipped")),
	}
	if s.NeedsApply > 0 {
		parts = append(parts, plural(s.NeedsApply, "pending"))
	}
	if s.Failed > 0 {
		parts = append(parts, failStyle.Render(plural(s.Failed, "failed")))
	}
	m.printf("\nSummary: %s\n", strings.Join(parts, ", "))
}

func plural(n int, what string) string {
	return fmt.Sprintf("%d %s", n, what)
}
