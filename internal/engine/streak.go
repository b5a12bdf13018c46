package engine

import (
	"fmt"
	"time"
)

// freezeCovers reports whether the streak freeze protects day.
func (e *Engine) freezeCovers(day Day) bool {
	s := e.state.User.Streak
	if !s.FreezeActive {
		return false
	}
	return s.FreezeExpiresDay.IsZero() || !day.After(s.FreezeExpiresDay)
}

// absorbs reports whether a break attributed to day is covered, either by
// the freeze already consumed for that day or by an active one.
func (e *Engine) absorbs(day Day) bool {
	return e.state.User.Streak.FrozenDay == day || e.freezeCovers(day)
}

// consumeFreeze spends an active freeze on day. It is a no-op when the
// freeze was already spent on that day.
func (e *Engine) consumeFreeze(now time.Time, day Day) {
	s := &e.state.User.Streak
	if s.FrozenDay == day {
		return
	}
	s.FreezeActive = false
	s.FreezeExpiresDay = ""
	s.FrozenDay = day
	e.emit(EventFreezeConsumed, now, "", 0, string(day))
	e.log.Info("streak freeze absorbed a missed day", "user", e.state.UserID, "day", day)
}

// dailySatisfied is true when at least one daily quest is assigned and every
// one of them is completed.
func (e *Engine) dailySatisfied() bool {
	assigned := 0
	for _, q := range e.state.Quests {
		if !q.IsDaily {
			continue
		}
		assigned++
		if q.Status != QuestCompleted {
			return false
		}
	}
	return assigned > 0
}

// RecordDailyCompletion counts the calendar day of now as satisfied. It is a
// no-op when that day (or a later one) was already counted. It reports whether
// the streak changed.
func (e *Engine) RecordDailyCompletion(now time.Time) bool {
	changed, _ := e.recordDay(now)
	return changed
}

func (e *Engine) recordDay(now time.Time) (bool, []string) {
	s := &e.state.User.Streak
	today := e.today(now)
	last := s.LastUpdatedDay

	if !last.IsZero() && !today.After(last) {
		return false, nil
	}

	switch gap := last.DaysUntil(today); {
	case last.IsZero():
		s.Current = 1
	case gap == 1:
		s.Current++
	case gap == 2 && e.absorbs(last.AddDays(1)):
		s.Current++
		e.consumeFreeze(now, last.AddDays(1))
	default:
		s.Current = 1
	}
	if s.Current > s.Longest {
		s.Longest = s.Current
	}
	s.LastUpdatedDay = today
	e.emit(EventStreakAdvanced, now, "", s.Current, string(today))
	e.log.Debug("streak advanced", "user", e.state.UserID, "current", s.Current, "longest", s.Longest)

	return true, e.CheckMilestones(now)
}

// CheckMilestones claims every unclaimed milestone the current streak has
// reached and returns the ids claimed by this call. Claimed milestones never
// pay twice.
func (e *Engine) CheckMilestones(now time.Time) []string {
	u := &e.state.User
	var claimed []string
	for i := range u.Milestones {
		m := &u.Milestones[i]
		if m.Claimed || m.ThresholdDays > u.Streak.Current {
			continue
		}
		m.Claimed = true
		e.Credit(m.RewardCoins)
		for _, item := range m.RewardItemIDs {
			u.grant(item)
		}
		claimed = append(claimed, m.ID)
		e.emit(EventMilestoneClaimed, now, m.ID, m.RewardCoins, fmt.Sprintf("%d day streak", m.ThresholdDays))
		e.log.Info("milestone claimed", "user", e.state.UserID, "milestone", m.ID, "coins", m.RewardCoins)
	}
	return claimed
}

// breakStreak resets the current streak for a miss on day unless a freeze
// absorbs it. One freeze covers every break attributed to the same day.
// It returns (broken, freezeUsed).
func (e *Engine) breakStreak(now time.Time, day Day) (bool, bool) {
	if e.absorbs(day) {
		e.consumeFreeze(now, day)
		return false, true
	}
	s := &e.state.User.Streak
	if s.Current == 0 {
		return false, false
	}
	prev := s.Current
	s.Current = 0
	e.emit(EventStreakBroken, now, "", prev, "")
	e.log.Info("streak broken", "user", e.state.UserID, "was", prev)
	return true, false
}

// NextMilestone returns the closest unclaimed milestone ahead of the current streak.
func (e *Engine) NextMilestone() (Milestone, bool) {
	u := e.state.User
	var best *Milestone
	for i := range u.Milestones {
		m := &u.Milestones[i]
		if m.Claimed || m.ThresholdDays <= u.Streak.Current {
			continue
		}
		if best == nil || m.ThresholdDays < best.ThresholdDays {
			best = m
		}
	}
	if best == nil {
		return Milestone{}, false
	}
	return *best, true
}
