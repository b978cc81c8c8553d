package models

import (
	tea "github.com/charmbracelet/bubbletea"

	"dupfind/internal/config"
	"dupfind/internal/detector"
	"dupfind/internal/fixer"
)

// ViewState represents the current view in the fix flow
type ViewState int

const (
	ViewConfirm ViewState = iota
	ViewFixing
	ViewSummary
)

// AppModel is the root model for the interactive fix flow: confirm the
// replacement plan, watch it run, review the outcome
type AppModel struct {
	state ViewState

	config     *config.Config
	sets       []*detector.DuplicateSet
	sourceRoot string

	confirmView *ConfirmViewModel
	fixView     *FixViewModel
	summaryView *SummaryViewModel

	// Result is populated once the fix completes (nil if cancelled)
	Result *fixer.FixResult

	width  int
	height int
}

// NewAppModel creates a new app model
func NewAppModel(cfg *config.Config, sourceRoot string, sets []*detector.DuplicateSet) *AppModel {
	return &AppModel{
		state:       ViewConfirm,
		config:      cfg,
		sets:        sets,
		sourceRoot:  sourceRoot,
		confirmView: NewConfirmViewModel(sets, 0, 0),
	}
}

// Init initializes the model
func (m *AppModel) Init() tea.Cmd {
	return m.confirmView.Init()
}

// Update handles messages
func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" && m.state != ViewFixing {
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case ConfirmedMsg:
		m.fixView = NewFixViewModel(m.config, m.sourceRoot, m.sets)
		m.state = ViewFixing
		return m, m.fixView.Init()

	case FixCompleteMsg:
		m.Result = msg.Result
		m.summaryView = NewSummaryViewModel(msg.Result, m.width, m.height)
		m.state = ViewSummary
		return m, nil
	}

	return m.delegateUpdate(msg)
}

func (m *AppModel) delegateUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.state {
	case ViewConfirm:
		if m.confirmView != nil {
			m.confirmView, cmd = m.confirmView.Update(msg)
		}
	case ViewFixing:
		if m.fixView != nil {
			m.fixView, cmd = m.fixView.Update(msg)
		}
	case ViewSummary:
		if m.summaryView != nil {
			m.summaryView, cmd = m.summaryView.Update(msg)
		}
	}

	return m, cmd
}

// View renders the current view
func (m *AppModel) View() string {
	switch m.state {
	case ViewConfirm:
		if m.confirmView != nil {
			return m.confirmView.View()
		}
	case ViewFixing:
		if m.fixView != nil {
			return m.fixView.View()
		}
	case ViewSummary:
		if m.summaryView != nil {
			return m.summaryView.View()
		}
	}
	return "Loading..."
}

// Custom messages
type ConfirmedMsg struct{}

type FixCompleteMsg struct {
	Result *fixer.FixResult
}
