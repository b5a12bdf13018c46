package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"prodigy/internal/engine"
	"prodigy/internal/session"
	"prodigy/internal/ui"
)

type boardModel struct {
	ctx  context.Context
	sess *session.Session

	width  int
	height int

	state    engine.State
	progress []engine.DomainProgress

	expanded map[string]bool
	selected int

	lastLog string
	loading bool
	busy    bool
	err     error
}

type loadedMsg struct {
	state    engine.State
	progress []engine.DomainProgress
	err      error
}

type actionMsg struct {
	log string
	err error
}

func newBoardModel(ctx context.Context, sess *session.Session) boardModel {
	return boardModel{
		ctx:      ctx,
		sess:     sess,
		expanded: map[string]bool{},
		loading:  true,
		lastLog:  "Loaded.",
	}
}

func (m boardModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m boardModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		err := m.sess.Run(m.ctx, func(*engine.Engine, time.Time) error { return nil })
		if err != nil {
			return loadedMsg{err: err}
		}
		e := m.sess.Engine()
		var progress []engine.DomainProgress
		for _, d := range engine.Domains {
			progress = append(progress, e.DomainProgress(d))
		}
		return loadedMsg{state: e.Snapshot(), progress: progress}
	}
}

func (m boardModel) completeCmd(id string) tea.Cmd {
	return func() tea.Msg {
		var log string
		err := m.sess.Run(m.ctx, func(e *engine.Engine, now time.Time) error {
			res := e.CompleteQuest(id, now)
			if res == nil {
				log = "Nothing to complete (quest is closed or past its deadline)."
				return nil
			}
			log = fmt.Sprintf("Completed: +%d coins, +%d XP", res.CoinsAwarded, res.XPAwarded)
			if res.LevelUp {
				log += fmt.Sprintf(" %s L%d → L%d", ui.BadgeLevelUp, res.LevelBefore, res.LevelAfter)
			}
			if res.ChainCompleted {
				log += fmt.Sprintf(" | chain bonus +%d coins", res.ChainCoins)
			}
			if res.StreakAdvanced {
				log += fmt.Sprintf(" | streak %d", e.User().Streak.Current)
			}
			return nil
		})
		return actionMsg{log: log, err: err}
	}
}

func (m boardModel) failCmd(id string) tea.Cmd {
	return func() tea.Msg {
		var log string
		err := m.sess.Run(m.ctx, func(e *engine.Engine, now time.Time) error {
			res := e.FailQuest(id, now)
			if res == nil {
				log = "Quest is already closed."
				return nil
			}
			log = fmt.Sprintf("Failed: -%d coins, -%d XP, coin penalty now %d%%", res.CoinsLost, res.XPLost, res.Penalties.CoinEarningPenaltyPct)
			return nil
		})
		return actionMsg{log: log, err: err}
	}
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case loadedMsg:
		m.loading = false
		m.busy = false
		m.err = msg.err
		if msg.err != nil {
			m.lastLog = "Load failed: " + msg.err.Error()
			return m, nil
		}
		m.state = msg.state
		m.progress = msg.progress
		for _, c := range m.state.Chains {
			if _, seen := m.expanded[c.ID]; !seen {
				m.expanded[c.ID] = !c.Completed
			}
		}
		m.clampSelection()
		return m, nil
	case actionMsg:
		if msg.err != nil {
			m.busy = false
			m.lastLog = "Action failed: " + msg.err.Error()
			return m, nil
		}
		m.lastLog = msg.log
		return m, m.loadCmd()
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}
			return m, nil
		case "down", "j":
			if m.selected < len(m.boardLines())-1 {
				m.selected++
			}
			return m, nil
		}
		if m.busy {
			return m, nil
		}
		switch msg.String() {
		case "r":
			m.busy = true
			m.lastLog = fmt.Sprintf("Refreshed at %s.", time.Now().Format("15:04:05"))
			return m, m.loadCmd()
		case "enter":
			if line, ok := m.current(); ok && line.chainID != "" && line.questID == "" {
				m.expanded[line.chainID] = !m.expanded[line.chainID]
			}
			return m, nil
		case "c", " ":
			line, ok := m.current()
			if !ok || line.questID == "" {
				m.lastLog = "Select a quest to complete."
				return m, nil
			}
			if line.status != engine.QuestActive {
				m.lastLog = "Quest is already " + string(line.status) + "."
				return m, nil
			}
			m.busy = true
			m.lastLog = "Completing " + line.title + "…"
			return m, m.completeCmd(line.questID)
		case "x":
			line, ok := m.current()
			if !ok || line.questID == "" || line.status != engine.QuestActive {
				m.lastLog = "Select an active quest to fail."
				return m, nil
			}
			m.busy = true
			return m, m.failCmd(line.questID)
		}
	}
	return m, nil
}

type boardLine struct {
	questID string
	chainID string
	section string
	depth   int
	title   string
	status  engine.QuestStatus
	daily   bool
}

// boardLines lays out today's dailies, then chains with their members, then
// standalone quests. Closed non-daily quests are hidden.
func (m boardModel) boardLines() []boardLine {
	var out []boardLine
	quests := m.state.Quests

	out = append(out, boardLine{section: "Today"})
	for _, q := range quests {
		if q.IsDaily {
			out = append(out, boardLine{questID: q.ID, depth: 1, title: q.Title, status: q.Status, daily: true})
		}
	}

	inChain := map[string]bool{}
	if len(m.state.Chains) > 0 {
		out = append(out, boardLine{section: "Chains"})
	}
	for _, c := range m.state.Chains {
		status := engine.QuestActive
		if c.Completed {
			status = engine.QuestCompleted
		}
		out = append(out, boardLine{chainID: c.ID, depth: 1, title: c.Title, status: status})
		for _, id := range c.QuestIDs {
			inChain[id] = true
			if !m.expanded[c.ID] {
				continue
			}
			if q := findQuest(quests, id); q != nil {
				out = append(out, boardLine{questID: q.ID, chainID: c.ID, depth: 2, title: q.Title, status: q.Status})
			}
		}
	}

	out = append(out, boardLine{section: "Quests"})
	for _, q := range quests {
		if q.IsDaily || inChain[q.ID] || q.Status.IsTerminal() {
			continue
		}
		out = append(out, boardLine{questID: q.ID, depth: 1, title: q.Title, status: q.Status})
	}
	return out
}

func (m boardModel) current() (boardLine, bool) {
	lines := m.boardLines()
	if m.selected < 0 || m.selected >= len(lines) {
		return boardLine{}, false
	}
	return lines[m.selected], true
}

func (m *boardModel) clampSelection() {
	n := len(m.boardLines())
	if m.selected >= n {
		m.selected = n - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

func (m boardModel) View() string {
	if m.err != nil {
		return "Error: " + m.err.Error() + "\n\nPress q to quit.\n"
	}

	header := m.renderHeader()
	sidebar := m.renderSidebar()
	main := m.renderMain()
	footer := m.renderFooter()

	leftW := 30
	if m.width > 0 {
		leftW = max(18, min(leftW, m.width/2))
	}

	linesLeft := strings.Split(sidebar, "\n")
	linesRight := strings.Split(main, "\n")
	rows := max(len(linesLeft), len(linesRight))

	var body strings.Builder
	for i := 0; i < rows; i++ {
		l, r := "", ""
		if i < len(linesLeft) {
			l = linesLeft[i]
		}
		if i < len(linesRight) {
			r = linesRight[i]
		}
		body.WriteString(padRight(l, leftW))
		body.WriteString("  ")
		body.WriteString(r)
		body.WriteString("\n")
	}

	return header + "\n" + body.String() + footer
}

func (m boardModel) renderHeader() string {
	if m.loading {
		return "Prodigy | loading…"
	}
	u := m.state.User
	cur := engine.XPRequiredForLevel(u.Level)
	next := engine.XPRequiredForLevel(u.Level + 1)
	bar := ui.ProgressBar(u.TotalXP-cur, next-cur, 24)
	return fmt.Sprintf("Prodigy | %s | Level %d | Rank %s | XP %d %s | %s %d | %s %d",
		m.sess.Identity().UserID, u.Level, ui.RankText(string(u.Rank)), u.TotalXP, bar,
		ui.IconCoin, u.Coins, ui.IconFire, u.Streak.Current)
}

func (m boardModel) renderSidebar() string {
	lines := []string{"Domains"}
	for _, p := range m.progress {
		bar := ui.ProgressBar(p.XP, p.XPToNextLevel, 10)
		lines = append(lines, fmt.Sprintf("%s %-9s %s %s", ui.DomainIcon(string(p.Domain)), p.Domain, ui.RankText(string(p.Rank)), bar))
	}
	if pen := m.state.User.Penalties; pen.CoinEarningPenaltyPct > 0 {
		lines = append(lines, "", fmt.Sprintf("Penalty -%d%% coins", pen.CoinEarningPenaltyPct),
			fmt.Sprintf("Redemption %d/%d", pen.RedemptionDone, pen.RedemptionRequired))
	}
	lines = append(lines, "", "Keys",
		"- ↑/↓ or j/k: move",
		"- enter: fold chain",
		"- c/space: complete",
		"- x: fail",
		"- r: refresh",
		"- q: quit")
	return strings.Join(lines, "\n")
}

func (m boardModel) renderMain() string {
	if m.loading {
		return "Loading…"
	}
	var out []string
	for i, l := range m.boardLines() {
		if l.section != "" {
			if i > 0 {
				out = append(out, "")
			}
			out = append(out, l.section)
			continue
		}
		cursor := "  "
		if i == m.selected {
			cursor = "> "
		}
		indent := strings.Repeat("  ", l.depth-1)
		fold := "  "
		if l.questID == "" {
			fold = "▸ "
			if m.expanded[l.chainID] {
				fold = "▾ "
			}
		}
		icon := ui.KindIcon(l.daily, l.chainID != "" && l.questID != "")
		out = append(out, fmt.Sprintf("%s%s%s%s %s (%s)", cursor, indent, fold, icon, l.title, ui.StatusText(string(l.status))))
	}
	return strings.Join(out, "\n")
}

func (m boardModel) renderFooter() string {
	return "\n" + m.lastLog
}

// padRight pads by display width so styled cells line up.
func padRight(s string, width int) string {
	w := lipgloss.Width(s)
	if width <= 0 || w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

func findQuest(quests []engine.Quest, id string) *engine.Quest {
	for i := range quests {
		if quests[i].ID == id {
			return &quests[i]
		}
	}
	return nil
}
