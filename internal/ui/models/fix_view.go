package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"dupfind/internal/config"
	"dupfind/internal/detector"
	"dupfind/internal/fixer"
	appprogress "dupfind/internal/progress"
	"dupfind/internal/ui/styles"
	"dupfind/pkg/utils"
)

// FixProgressMsg carries a progress update from the running fixer
type FixProgressMsg struct {
	Progress *appprogress.FixProgress
}

// FixViewModel handles the replacement progress view
type FixViewModel struct {
	config     *config.Config
	sourceRoot string
	sets       []*detector.DuplicateSet

	fixer      *fixer.Fixer
	updates    <-chan interface{}
	spinner    spinner.Model
	progress   progress.Model
	current    *appprogress.FixProgress
	startTime  time.Time
	result     *fixer.FixResult
	done       bool
}

// NewFixViewModel creates a new fix view model
func NewFixViewModel(cfg *config.Config, sourceRoot string, sets []*detector.DuplicateSet) *FixViewModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.SelectedStyle

	p := progress.New(progress.WithDefaultGradient())

	fx := fixer.New(cfg)

	return &FixViewModel{
		config:     cfg,
		sourceRoot: sourceRoot,
		sets:       sets,
		fixer:      fx,
		updates:    fx.GetProgressReporter().Subscribe(),
		spinner:    s,
		progress:   p,
		startTime:  time.Now(),
	}
}

// Init initializes the fix view
func (m *FixViewModel) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.listenProgress,
		m.performFix,
	)
}

// Update handles messages
func (m *FixViewModel) Update(msg tea.Msg) (*FixViewModel, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case FixProgressMsg:
		if msg.Progress == nil {
			return m, nil
		}
		m.current = msg.Progress
		return m, m.listenProgress

	case FixCompleteMsg:
		m.done = true
		m.result = msg.Result
		return m, nil
	}

	return m, nil
}

// View renders the fix view
func (m *FixViewModel) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("🔗 Replacing Copies"))
	b.WriteString("\n\n")

	if m.done {
		b.WriteString(styles.SuccessStyle.Render("✓ Replacement Complete!"))
		b.WriteString("\n\n")
		if m.result != nil {
			b.WriteString(fmt.Sprintf("Replaced: %d files\n", len(m.result.ReplacedFiles)))
			b.WriteString(fmt.Sprintf("Reclaimed: %s\n", utils.FormatBytes(m.result.ReclaimedSize)))
		}
		b.WriteString("\n")
		b.WriteString(styles.HelpStyle.Render("Moving to summary..."))
		return b.String()
	}

	b.WriteString(m.spinner.View())
	b.WriteString(" Replacing copies with hardlinks... ")
	b.WriteString(styles.DimStyle.Render(fmt.Sprintf("(%s)", time.Since(m.startTime).Round(time.Second))))
	b.WriteString("\n\n")

	replaced, total := 0, 0
	var reclaimed int64
	currentFile := ""
	if m.current != nil {
		replaced = m.current.ReplacedFiles
		total = m.current.TotalFiles
		reclaimed = m.current.ReclaimedBytes
		currentFile = m.current.CurrentFile
	}

	if total > 0 {
		b.WriteString(m.progress.ViewAs(float64(replaced) / float64(total)))
		b.WriteString("\n\n")
	}
	b.WriteString(fmt.Sprintf("Progress: %d/%d files • reclaimed %s\n",
		replaced, total, utils.FormatBytes(reclaimed)))
	if currentFile != "" {
		b.WriteString(styles.FilePathStyle.Render(currentFile))
		b.WriteString("\n")
	}

	return b.String()
}

// listenProgress waits for the next reporter update
func (m *FixViewModel) listenProgress() tea.Msg {
	update, ok := <-m.updates
	if !ok {
		return FixProgressMsg{}
	}
	if fp, ok := update.(*appprogress.FixProgress); ok {
		return FixProgressMsg{Progress: fp}
	}
	return FixProgressMsg{}
}

// performFix runs the replacement
func (m *FixViewModel) performFix() tea.Msg {
	result, err := m.fixer.Fix(m.sourceRoot, m.sets)
	if err != nil {
		result = &fixer.FixResult{
			SkippedReason: map[string]string{},
			Errors: []*fixer.ReplaceError{
				{Path: m.sourceRoot, Reason: fixer.ErrorUnknown, Original: err},
			},
		}
	}
	return FixCompleteMsg{Result: result}
}
