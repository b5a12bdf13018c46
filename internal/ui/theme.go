package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Prodigy theme (CLI + TUI).

const (
	IconQuest   = "🗺️"
	IconDaily   = "📅"
	IconChain   = "⛓"
	IconSparkle = "✨"
	IconPlus    = "➕"
	IconDone    = "✅"
	IconFail    = "💀"
	IconExpired = "⌛"
	IconTrophy  = "🏆"
	IconBolt    = "⚡"
	IconCoin    = "🪙"
	IconFire    = "🔥"
	IconIce     = "🧊"
	IconShop    = "🛒"
	IconInfo    = "ℹ️"
	IconWarn    = "⚠️"
	IconError   = "🧨"
	IconScroll  = "📜"
)

var (
	cPrimary = lipgloss.Color("63")  // blue
	cAccent  = lipgloss.Color("205") // magenta
	cGood    = lipgloss.Color("42")  // green
	cWarn    = lipgloss.Color("214") // orange
	cBad     = lipgloss.Color("196") // red
	cMuted   = lipgloss.Color("244") // gray
	cGold    = lipgloss.Color("220") // gold
	cCyan    = lipgloss.Color("51")
	cPurple  = lipgloss.Color("135")
)

var (
	Title = lipgloss.NewStyle().Bold(true).Foreground(cAccent)
	H2    = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Muted = lipgloss.NewStyle().Foreground(cMuted)
	Key   = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Good  = lipgloss.NewStyle().Bold(true).Foreground(cGood)
	Warn  = lipgloss.NewStyle().Bold(true).Foreground(cWarn)
	Bad   = lipgloss.NewStyle().Bold(true).Foreground(cBad)
	Gold  = lipgloss.NewStyle().Bold(true).Foreground(cGold)

	Panel       = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(cMuted).Padding(0, 1)
	SelectedRow = lipgloss.NewStyle().Bold(true).Foreground(cGold).Background(cPrimary)

	BadgeLevelUp = Gold.Render("LEVEL UP")
)

func Heading(icon string, title string) string {
	icon = strings.TrimSpace(icon)
	if icon != "" {
		icon += " "
	}
	return Title.Render(icon + title)
}

func LabelValue(label string, value any) string {
	return fmt.Sprintf("%s %v", Key.Render(label+":"), value)
}

func StatusText(status string) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "completed":
		return Good.Render("completed")
	case "active":
		return H2.Render("active")
	case "failed":
		return Bad.Render("failed")
	case "expired":
		return Warn.Render("expired")
	default:
		return Muted.Render(status)
	}
}

// RankText colors a rank letter by tier.
func RankText(rank string) string {
	var c lipgloss.Color
	switch rank {
	case "E":
		c = cMuted
	case "D":
		c = cGood
	case "C":
		c = cCyan
	case "B":
		c = cPrimary
	case "A":
		c = cPurple
	case "S", "SS":
		c = cWarn
	case "SSS":
		c = cGold
	default:
		return Muted.Render(rank)
	}
	return lipgloss.NewStyle().Bold(true).Foreground(c).Render(rank)
}

func DomainIcon(domain string) string {
	switch domain {
	case "Physical":
		return "💪"
	case "Mental":
		return "🧠"
	case "Technical":
		return "💻"
	case "Creative":
		return "🎨"
	default:
		return IconQuest
	}
}

func KindIcon(isDaily bool, inChain bool) string {
	if isDaily {
		return IconDaily
	}
	if inChain {
		return IconChain
	}
	return IconQuest
}

// ProgressBar renders value/total as a fixed-width bar.
func ProgressBar(value int, total int, width int) string {
	if total <= 0 {
		total = 1
	}
	if width <= 3 {
		width = 3
	}
	value = max(0, min(value, total))
	filled := min(width, int(float64(value)/float64(total)*float64(width)))
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}
