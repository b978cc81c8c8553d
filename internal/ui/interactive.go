// Package ui implements the interactive fix flow and the live scan
// progress line.
package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"dupfind/internal/config"
	"dupfind/internal/detector"
	"dupfind/internal/fixer"
	"dupfind/internal/ui/models"
)

// RunFix starts the interactive confirm → fix → summary flow and
// returns the fix result, or nil if the user cancelled before fixing.
func RunFix(cfg *config.Config, sourceRoot string, sets []*detector.DuplicateSet) (*fixer.FixResult, error) {
	m := models.NewAppModel(cfg, sourceRoot, sets)

	p := tea.NewProgram(m)
	finalModel, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("error running interactive mode: %w", err)
	}

	if app, ok := finalModel.(*models.AppModel); ok {
		return app.Result, nil
	}
	return nil, nil
}
