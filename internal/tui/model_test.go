package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prodigy/internal/engine"
	"prodigy/internal/session"
)

type memGateway struct {
	data []byte
}

func (g *memGateway) Load(context.Context, string) ([]byte, error) { return g.data, nil }

func (g *memGateway) Save(_ context.Context, _ session.Identity, _ int, data []byte, _ []engine.Event) error {
	g.data = data
	return nil
}

func newTestBoard(t *testing.T) boardModel {
	t.Helper()
	clock := engine.NewFixedClock(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))
	sess, err := session.Open(context.Background(), &memGateway{}, session.Identity{UserID: "alice", Role: session.RoleUser}, session.Options{
		Clock:  clock,
		Engine: []engine.Option{engine.WithLocation(time.UTC)},
	})
	require.NoError(t, err)

	m := newBoardModel(context.Background(), sess)
	next, _ := m.Update(m.loadCmd()())
	return next.(boardModel)
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestBoardListsDailies(t *testing.T) {
	m := newTestBoard(t)
	lines := m.boardLines()
	require.NotEmpty(t, lines)
	assert.Equal(t, "Today", lines[0].section)

	dailies := 0
	for _, l := range lines {
		if l.daily {
			dailies++
		}
	}
	assert.GreaterOrEqual(t, dailies, engine.DefaultDailyMin)
	assert.Contains(t, m.View(), "Prodigy | alice")
}

func TestBoardCompleteSelectedQuest(t *testing.T) {
	m := newTestBoard(t)

	next, _ := m.Update(key("j"))
	m = next.(boardModel)
	line, ok := m.current()
	require.True(t, ok)
	require.True(t, line.daily)

	next, cmd := m.Update(key("c"))
	m = next.(boardModel)
	require.NotNil(t, cmd)
	assert.True(t, m.busy)

	next, cmd = m.Update(cmd())
	m = next.(boardModel)
	assert.Contains(t, m.lastLog, "Completed")
	require.NotNil(t, cmd)

	next, _ = m.Update(cmd())
	m = next.(boardModel)
	assert.False(t, m.busy)
	q := findQuest(m.state.Quests, line.questID)
	require.NotNil(t, q)
	assert.Equal(t, engine.QuestCompleted, q.Status)
	assert.Positive(t, m.state.User.Coins)
}

func TestBoardIgnoresSectionHeaders(t *testing.T) {
	m := newTestBoard(t)
	next, cmd := m.Update(key("c"))
	assert.Nil(t, cmd)
	assert.Equal(t, "Select a quest to complete.", next.(boardModel).lastLog)
}
