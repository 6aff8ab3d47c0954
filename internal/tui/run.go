package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/Veraticus/punchgrid/internal/report"
	tea "github.com/charmbracelet/bubbletea"
)

// Run opens the browser full screen and blocks until the user quits or ctx
// is canceled.
func Run(ctx context.Context, layout report.Layout, cfg Config, opts ...tea.ProgramOption) error {
	if len(layout.Body) == 0 {
		return fmt.Errorf("nothing to browse")
	}

	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	p := tea.NewProgram(New(layout, cfg), opts...)

	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
