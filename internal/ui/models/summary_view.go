package models

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"dupfind/internal/fixer"
	"dupfind/internal/ui/styles"
	"dupfind/pkg/utils"
)

// SummaryViewModel shows the outcome of a fix run
type SummaryViewModel struct {
	result *fixer.FixResult
	width  int
	height int
}

// NewSummaryViewModel creates a new summary view model
func NewSummaryViewModel(result *fixer.FixResult, width, height int) *SummaryViewModel {
	return &SummaryViewModel{
		result: result,
		width:  width,
		height: height,
	}
}

// Init initializes the summary view
func (m *SummaryViewModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m *SummaryViewModel) Update(msg tea.Msg) (*SummaryViewModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "enter", "q", "esc":
			return m, tea.Quit
		}
	}

	return m, nil
}

// View renders the summary view
func (m *SummaryViewModel) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("📊 Fix Summary"))
	b.WriteString("\n\n")

	if m.result == nil {
		b.WriteString("No result available.\n")
		b.WriteString(styles.HelpStyle.Render("Press enter to exit"))
		return b.String()
	}

	if m.result.DryRun {
		b.WriteString(styles.WarningStyle.Render("Dry run: no files were modified"))
		b.WriteString("\n\n")
	}

	b.WriteString(fmt.Sprintf("Replaced:  %s\n",
		styles.SuccessStyle.Render(fmt.Sprintf("%d files", len(m.result.ReplacedFiles)))))
	b.WriteString(fmt.Sprintf("Reclaimed: %s\n",
		styles.FileSizeStyle.Render(utils.FormatBytes(m.result.ReclaimedSize))))

	if len(m.result.SkippedFiles) > 0 {
		b.WriteString(fmt.Sprintf("Skipped:   %d files\n", len(m.result.SkippedFiles)))
		shown := m.result.SkippedFiles
		if len(shown) > 5 {
			shown = shown[:5]
		}
		for _, path := range shown {
			b.WriteString(styles.DimStyle.Render(
				fmt.Sprintf("  %s (%s)\n", path, m.result.SkippedReason[path])))
		}
		if len(m.result.SkippedFiles) > 5 {
			b.WriteString(styles.DimStyle.Render(
				fmt.Sprintf("  ... and %d more\n", len(m.result.SkippedFiles)-5)))
		}
	}

	if len(m.result.Errors) > 0 {
		b.WriteString("\n")
		b.WriteString(styles.ErrorStyle.Render(
			fmt.Sprintf("%d error(s)", len(m.result.Errors))))
		b.WriteString("\n")
		shown := m.result.Errors
		if len(shown) > 5 {
			shown = shown[:5]
		}
		for _, err := range shown {
			b.WriteString(styles.DimStyle.Render("  " + err.UserMessage() + "\n"))
		}
	}

	b.WriteString("\n")
	b.WriteString(styles.HelpStyle.Render("Press enter to exit"))

	return b.String()
}
