package models

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"dupfind/internal/detector"
	"dupfind/internal/ui/styles"
	"dupfind/pkg/utils"
)

// RiskLevel grades how much data a fix run is about to touch
type RiskLevel int

const (
	RiskLow RiskLevel = iota
	RiskMedium
	RiskHigh
)

// ConfirmViewModel handles the pre-fix confirmation screen
type ConfirmViewModel struct {
	sets      []*detector.DuplicateSet
	cursor    int // 0 = Yes, 1 = Cancel
	riskLevel RiskLevel
	width     int
	height    int
}

// NewConfirmViewModel creates a new confirm view model
func NewConfirmViewModel(sets []*detector.DuplicateSet, width, height int) *ConfirmViewModel {
	risk := calculateRiskLevel(sets)
	defaultCursor := 0
	if risk == RiskHigh {
		defaultCursor = 1 // Default to "Cancel" for high risk
	}

	if width == 0 {
		width = 80
	}
	if height == 0 {
		height = 24
	}

	return &ConfirmViewModel{
		sets:      sets,
		cursor:    defaultCursor,
		riskLevel: risk,
		width:     width,
		height:    height,
	}
}

// calculateRiskLevel grades by pair count and bytes to be reclaimed
func calculateRiskLevel(sets []*detector.DuplicateSet) RiskLevel {
	pairs := 0
	var wasted int64
	for _, set := range sets {
		pairs += len(set.CopyPairs)
		wasted += set.WastedSpace
	}

	if pairs > 500 || wasted > 100*utils.GB {
		return RiskHigh
	}
	if pairs >= 50 || wasted > 10*utils.GB {
		return RiskMedium
	}
	return RiskLow
}

// Init initializes the confirm view
func (m *ConfirmViewModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m *ConfirmViewModel) Update(msg tea.Msg) (*ConfirmViewModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "left", "h":
			if m.cursor > 0 {
				m.cursor--
			}
		case "right", "l", "tab":
			if m.cursor < 1 {
				m.cursor++
			} else if msg.String() == "tab" {
				m.cursor = 0
			}
		case "enter":
			if m.cursor == 0 {
				return m, func() tea.Msg { return ConfirmedMsg{} }
			}
			return m, tea.Quit
		case "y":
			return m, func() tea.Msg { return ConfirmedMsg{} }
		case "n", "q", "esc":
			return m, tea.Quit
		}
	}

	return m, nil
}

// View renders the confirmation view
func (m *ConfirmViewModel) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("🔗 Confirm Hardlink Replacement"))
	b.WriteString("\n\n")

	fixable := 0
	pairs := 0
	skipped := 0
	var wasted int64
	for _, set := range m.sets {
		if set.SourceFile == nil {
			skipped++
			continue
		}
		if len(set.CopyPairs) == 0 {
			continue
		}
		fixable++
		pairs += len(set.CopyPairs)
		wasted += set.WastedSpace
	}

	b.WriteString(fmt.Sprintf("Duplicate sets with copies: %s\n",
		styles.SelectedStyle.Render(fmt.Sprintf("%d", fixable))))
	b.WriteString(fmt.Sprintf("Files to replace:           %s\n",
		styles.SelectedStyle.Render(fmt.Sprintf("%d", pairs))))
	b.WriteString(fmt.Sprintf("Space to reclaim:           %s\n",
		styles.FileSizeStyle.Render(utils.FormatBytes(wasted))))
	if skipped > 0 {
		b.WriteString(styles.DimStyle.Render(
			fmt.Sprintf("%d set(s) without a source file will be skipped\n", skipped)))
	}
	b.WriteString("\n")

	switch m.riskLevel {
	case RiskHigh:
		b.WriteString(styles.ErrorStyle.Render("⚠ HIGH RISK: large replacement batch"))
		b.WriteString("\n\n")
	case RiskMedium:
		b.WriteString(styles.WarningStyle.Render("⚠ Medium risk"))
		b.WriteString("\n\n")
	}

	b.WriteString("Each copy is re-validated against the source immediately before\n")
	b.WriteString("replacement. The source directory is never modified.\n\n")

	yes := " Replace "
	cancel := " Cancel "
	if m.cursor == 0 {
		yes = styles.HighlightStyle.Render(yes)
		cancel = styles.DimStyle.Render(cancel)
	} else {
		yes = styles.DimStyle.Render(yes)
		cancel = styles.HighlightStyle.Render(cancel)
	}
	b.WriteString(fmt.Sprintf("   %s   %s\n\n", yes, cancel))

	b.WriteString(styles.HelpStyle.Render("←/→ select • enter confirm • y yes • n cancel"))

	return b.String()
}
