package engine

import (
	"fmt"
	"strings"
	"time"
)

type SkillInput struct {
	Name   string
	Domain Domain
	// Optional starting progress, for importing existing skills.
	Level         int
	XP            int
	XPToNextLevel int
}

type QuestInput struct {
	Title       string
	Description string
	Domain      Domain
	Difficulty  Difficulty
	// Zero rewards fall back to the catalog reward for the difficulty.
	XPReward   int
	CoinReward int
	Deadline   *time.Time
	IsDaily    bool
	ChainID    string
	Criteria   []string
	Punishment *Punishment
}

type ChainInput struct {
	Title      string
	Domain     Domain
	QuestIDs   []string
	BonusXP    int
	BonusCoins int
}

type FailResult struct {
	QuestID        string
	CoinsLost      int
	XPLost         int
	StreakBroken   bool
	FreezeConsumed bool
	Penalties      Penalties
}

func normalizeTitle(title string) (string, error) {
	t := strings.TrimSpace(title)
	if t == "" {
		return "", InputError{Field: "title", Reason: "is required"}
	}
	return t, nil
}

// AddSkill registers a new skill and returns its id.
func (e *Engine) AddSkill(in SkillInput, now time.Time) (string, error) {
	name, err := normalizeTitle(in.Name)
	if err != nil {
		return "", InputError{Field: "name", Reason: "is required"}
	}
	domain := in.Domain
	if !domain.IsValid() {
		domain = DefaultDomain
	}

	sk := Skill{
		ID:            e.newID(),
		Name:          name,
		Domain:        domain,
		Level:         in.Level,
		XPToNextLevel: in.XPToNextLevel,
		CreatedAt:     now,
	}
	if sk.Level < 1 {
		sk.Level = 1
	}
	if sk.XPToNextLevel <= 0 {
		sk.XPToNextLevel = DefaultXPToNextLevel
	}
	e.state.Skills = append(e.state.Skills, sk)

	if in.XP > 0 {
		created := &e.state.Skills[len(e.state.Skills)-1]
		ApplyXP(created, float64(in.XP), now)
		e.recomputeDomainRank(domain, now)
	}
	return sk.ID, nil
}

// RemoveSkill deletes a skill. Unknown ids are ignored.
func (e *Engine) RemoveSkill(id string) bool {
	for i := range e.state.Skills {
		if e.state.Skills[i].ID == id {
			d := e.state.Skills[i].Domain
			e.state.Skills = append(e.state.Skills[:i], e.state.Skills[i+1:]...)
			e.state.DomainRanks[d] = RankForXP(domainXP(e.state.Skills, d))
			return true
		}
	}
	return false
}

// AddQuest registers a user-authored (or host-provided daily) quest.
func (e *Engine) AddQuest(in QuestInput, now time.Time) (string, error) {
	title, err := normalizeTitle(in.Title)
	if err != nil {
		return "", err
	}
	domain := in.Domain
	if !domain.IsValid() {
		domain = DefaultDomain
	}
	diff := in.Difficulty
	if !diff.IsValid() {
		diff = DifficultyMedium
	}
	reward := e.cat.RewardFor(diff)

	xp := in.XPReward
	if xp <= 0 {
		xp = reward.XP
	}
	coins := in.CoinReward
	if coins <= 0 {
		coins = reward.Coins
	}

	var punishment *Punishment
	if in.Punishment != nil && in.Punishment.Kind.IsValid() {
		p := *in.Punishment
		if p.Amount < 0 {
			p.Amount = 0
		}
		punishment = &p
	}
	var deadline *time.Time
	if in.Deadline != nil {
		d := *in.Deadline
		deadline = &d
	}

	q := Quest{
		ID:                 e.newID(),
		Title:              title,
		Description:        strings.TrimSpace(in.Description),
		Domain:             domain,
		Difficulty:         diff,
		XPReward:           xp,
		CoinReward:         coins,
		Status:             QuestActive,
		Deadline:           deadline,
		IsDaily:            in.IsDaily,
		ChainID:            strings.TrimSpace(in.ChainID),
		CompletionCriteria: append([]string(nil), in.Criteria...),
		Punishment:         punishment,
		CreatedAt:          now,
	}
	e.state.Quests = append(e.state.Quests, q)
	return q.ID, nil
}

// RemoveQuest deletes a quest regardless of its status. Unknown ids are ignored.
func (e *Engine) RemoveQuest(id string) bool {
	for i := range e.state.Quests {
		if e.state.Quests[i].ID == id {
			e.state.Quests = append(e.state.Quests[:i], e.state.Quests[i+1:]...)
			return true
		}
	}
	return false
}

// AddChain groups existing quests under a bonus reward. Member quests get
// their ChainID set; unknown quest ids are dropped.
func (e *Engine) AddChain(in ChainInput) (string, error) {
	title, err := normalizeTitle(in.Title)
	if err != nil {
		return "", err
	}
	domain := in.Domain
	if !domain.IsValid() {
		domain = DefaultDomain
	}

	c := QuestChain{
		ID:         e.newID(),
		Title:      title,
		Domain:     domain,
		BonusXP:    max(in.BonusXP, 0),
		BonusCoins: max(in.BonusCoins, 0),
	}
	for _, qid := range in.QuestIDs {
		q := e.state.quest(qid)
		if q == nil {
			continue
		}
		q.ChainID = c.ID
		c.QuestIDs = append(c.QuestIDs, qid)
	}
	if len(c.QuestIDs) == 0 {
		return "", InputError{Field: "quests", Reason: "must reference at least one known quest"}
	}
	e.state.Chains = append(e.state.Chains, c)
	return c.ID, nil
}

// AwardXP grants amount XP to a skill. Unknown skills and malformed amounts
// are no-ops. It returns the levels gained and whether anything changed.
func (e *Engine) AwardXP(skillID string, amount float64, now time.Time) (int, bool) {
	sk := e.state.skill(skillID)
	if sk == nil {
		return 0, false
	}
	levels, applied := e.awardSkillXP(sk, amount, now)
	return levels, applied > 0
}

// awardSkillXP runs the ledger and keeps user level, user rank and the
// domain rank in step with the award.
func (e *Engine) awardSkillXP(sk *Skill, amount float64, now time.Time) (int, int) {
	levels, applied := ApplyXP(sk, amount, now)
	if applied == 0 {
		return 0, 0
	}
	if levels > 0 {
		e.emit(EventLevelUp, now, sk.ID, sk.Level, sk.Name)
		e.log.Debug("skill level up", "skill", sk.Name, "level", sk.Level, "gained", levels)
	}

	u := &e.state.User
	rankBefore := u.Rank
	u.TotalXP += applied
	u.Level = LevelForTotalXP(u.TotalXP)
	u.Rank = RankForXP(u.TotalXP)
	if u.Rank != rankBefore {
		e.emit(EventRankUp, now, "", u.TotalXP, fmt.Sprintf("%s -> %s", rankBefore, u.Rank))
		e.log.Info("rank up", "user", e.state.UserID, "from", rankBefore, "to", u.Rank)
	}
	e.recomputeDomainRank(sk.Domain, now)
	return levels, applied
}

func (e *Engine) recomputeDomainRank(d Domain, now time.Time) {
	before := e.state.DomainRanks[d]
	after := RankForXP(domainXP(e.state.Skills, d))
	e.state.DomainRanks[d] = after
	if before != "" && after != before {
		e.emit(EventRankUp, now, string(d), domainXP(e.state.Skills, d), fmt.Sprintf("%s: %s -> %s", d, before, after))
	}
}

// FailQuest applies the quest's punishment, marks it failed and grows the
// penalty accumulator. Unknown or terminal quests yield nil.
func (e *Engine) FailQuest(id string, now time.Time) *FailResult {
	return e.failQuest(id, now, e.today(now))
}

// failQuest charges the failure to missed. The accumulator grows once per
// missed day, however many quests fail on it.
func (e *Engine) failQuest(id string, now time.Time, missed Day) *FailResult {
	q := e.state.quest(id)
	if q == nil || q.Status != QuestActive {
		return nil
	}
	res := &FailResult{QuestID: q.ID}

	if p := q.Punishment; p != nil {
		switch p.Kind {
		case PunishCoinLoss:
			res.CoinsLost = e.deductCoins(p.Amount)
		case PunishStreakBreak:
			res.StreakBroken, res.FreezeConsumed = e.breakStreak(now, missed)
		case PunishXPPenalty:
			res.XPLost = deductXP(e.state.firstSkillInDomain(q.Domain), p.Amount, now)
		}
	}

	q.Status = QuestFailed

	pen := &e.state.User.Penalties
	if pen.LastMissedDay != missed {
		pen.ConsecutiveMissedDays++
		pen.CoinEarningPenaltyPct = min(MaxCoinPenaltyPct, pen.CoinEarningPenaltyPct+CoinPenaltyStepPct)
		pen.StreakDecayPct = min(MaxStreakDecayPct, pen.StreakDecayPct+StreakDecayStepPct)
		pen.LastMissedDay = missed
	}
	pen.RedemptionRequired = RedemptionTasksNeeded
	pen.RedemptionDone = 0
	res.Penalties = *pen

	e.emit(EventQuestFailed, now, q.ID, res.CoinsLost, q.Title)
	e.log.Info("quest failed", "quest", q.ID, "title", q.Title, "coin_penalty_pct", pen.CoinEarningPenaltyPct)
	return res
}

// expireQuest moves an active quest to expired without punishment.
func (e *Engine) expireQuest(q *Quest, now time.Time) bool {
	if q.Status != QuestActive {
		return false
	}
	q.Status = QuestExpired
	e.emit(EventQuestExpired, now, q.ID, 0, q.Title)
	return true
}

func pastDeadline(q *Quest, now time.Time) bool {
	return q.Deadline != nil && now.After(*q.Deadline)
}
