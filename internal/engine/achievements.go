package engine

// Achievement represents a badge the user has earned or can earn. They are
// derived from state on every call and never stored.
type Achievement struct {
	ID          string
	Name        string
	Description string
	Icon        string
	Earned      bool
}

type DomainProgress struct {
	Domain          Domain
	Rank            Rank
	Level           int
	XP              int
	XPToNextLevel   int
	CompletedQuests int
	TotalQuests     int
	AverageScore    float64
}

// DomainProgress summarizes the skills and quests of one domain.
func (e *Engine) DomainProgress(d Domain) DomainProgress {
	p := DomainProgress{Domain: d, Rank: e.DomainRank(d)}
	for _, sk := range e.state.Skills {
		if sk.Domain != d {
			continue
		}
		if sk.Level > p.Level {
			p.Level = sk.Level
		}
		p.XP += sk.XP
		p.XPToNextLevel += sk.XPToNextLevel
	}
	for _, q := range e.state.Quests {
		if q.Domain != d {
			continue
		}
		p.TotalQuests++
		if q.Status == QuestCompleted {
			p.CompletedQuests++
		}
	}
	if p.TotalQuests > 0 {
		p.AverageScore = float64(p.CompletedQuests) / float64(p.TotalQuests) * 100
	}
	return p
}

// Achievements returns all achievements with their earned status.
func (e *Engine) Achievements() []Achievement {
	completed := 0
	for _, q := range e.state.Quests {
		if q.Status == QuestCompleted {
			completed++
		}
	}
	u := e.state.User

	achievements := []Achievement{
		// Level milestones
		levelAchievement("first_steps", "First Steps", "Reach level 2", "🌱", u.Level, 2),
		levelAchievement("on_the_path", "On the Path", "Reach level 5", "🌳", u.Level, 5),
		levelAchievement("seasoned", "Seasoned Adventurer", "Reach level 10", "⭐", u.Level, 10),

		// Quest completions
		countAchievement("first_quest", "First Quest", "Complete 1 quest", "✓", completed, 1),
		countAchievement("productive", "Productive", "Complete 10 quests", "📋", completed, 10),
		countAchievement("powerhouse", "Powerhouse", "Complete 100 quests", "🏆", completed, 100),

		// Streaks
		countAchievement("consistent", "Consistent", "Reach a 7 day streak", "🔥", u.Streak.Longest, 7),
		countAchievement("unbreakable", "Unbreakable", "Reach a 30 day streak", "💎", u.Streak.Longest, 30),
	}

	for _, d := range Domains {
		achievements = append(achievements, Achievement{
			ID:          "rank_c_" + string(d),
			Name:        string(d) + " Adept",
			Description: "Reach rank C in " + string(d),
			Icon:        "🎯",
			Earned:      rankIndex(e.DomainRank(d)) >= rankIndex(RankC),
		})
	}

	chainDone := false
	for _, c := range e.state.Chains {
		if c.Completed {
			chainDone = true
			break
		}
	}
	achievements = append(achievements, Achievement{
		ID: "chain_breaker", Name: "Chain Breaker", Description: "Complete a quest chain", Icon: "⛓", Earned: chainDone,
	})
	return achievements
}

// CountEarned returns how many achievements have been earned.
func CountEarned(list []Achievement) int {
	count := 0
	for _, a := range list {
		if a.Earned {
			count++
		}
	}
	return count
}

func levelAchievement(id, name, desc, icon string, level, want int) Achievement {
	return Achievement{ID: id, Name: name, Description: desc, Icon: icon, Earned: level >= want}
}

func countAchievement(id, name, desc, icon string, have, want int) Achievement {
	return Achievement{ID: id, Name: name, Description: desc, Icon: icon, Earned: have >= want}
}
