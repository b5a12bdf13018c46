package tui

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"prodigy/internal/session"
)

func RunBoard(ctx context.Context, sess *session.Session, out io.Writer) error {
	m := newBoardModel(ctx, sess)
	p := tea.NewProgram(m, tea.WithOutput(out))
	_, err := p.Run()
	return err
}
