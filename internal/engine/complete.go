package engine

import (
	"time"
)

type CompleteResult struct {
	QuestID      string
	CoinsAwarded int
	XPAwarded    int
	SkillID      string // empty when no skill matched the quest's domain
	LevelBefore  int
	LevelAfter   int
	LevelUp      bool

	ChainCompleted bool
	ChainID        string
	ChainCoins     int
	ChainXP        int

	StreakAdvanced    bool
	MilestonesClaimed []string
}

// CompleteQuest marks an active quest completed and pays its rewards. Unknown
// or terminal quests yield nil, so a second call never pays twice. A quest
// whose deadline already passed is expired instead and also yields nil.
func (e *Engine) CompleteQuest(id string, now time.Time) *CompleteResult {
	q := e.state.quest(id)
	if q == nil || q.Status != QuestActive {
		return nil
	}
	if !q.IsDaily && pastDeadline(q, now) {
		e.expireQuest(q, now)
		return nil
	}

	completedAt := now
	q.Status = QuestCompleted
	q.CompletedAt = &completedAt

	res := &CompleteResult{QuestID: q.ID}
	res.CoinsAwarded = e.Credit(e.coinReward(q.CoinReward, q.StreakApplied, now))

	if sk := e.state.firstSkillInDomain(q.Domain); sk != nil {
		res.SkillID = sk.ID
		res.LevelBefore = sk.Level
		levels, applied := e.awardSkillXP(sk, e.xpReward(q.XPReward, now), now)
		res.XPAwarded = applied
		res.LevelAfter = sk.Level
		res.LevelUp = levels > 0
	}

	pen := &e.state.User.Penalties
	if pen.RedemptionRequired > 0 && pen.RedemptionDone < pen.RedemptionRequired {
		pen.RedemptionDone++
	}

	e.emit(EventQuestCompleted, now, q.ID, res.CoinsAwarded, q.Title)
	e.log.Info("quest completed", "quest", q.ID, "title", q.Title, "coins", res.CoinsAwarded, "xp", res.XPAwarded)

	if q.ChainID != "" {
		e.evaluateChain(q.ChainID, now, res)
	}
	if q.IsDaily && e.dailySatisfied() {
		res.StreakAdvanced, res.MilestonesClaimed = e.recordDay(now)
	}
	return res
}

// evaluateChain pays a chain bonus the first time every member quest is completed.
func (e *Engine) evaluateChain(chainID string, now time.Time, res *CompleteResult) {
	c := e.state.chain(chainID)
	if c == nil || c.Completed || len(c.QuestIDs) == 0 {
		return
	}
	for _, qid := range c.QuestIDs {
		q := e.state.quest(qid)
		if q == nil || q.Status != QuestCompleted {
			return
		}
	}
	c.Completed = true
	res.ChainCompleted = true
	res.ChainID = c.ID
	res.ChainCoins = e.AddCoins(c.BonusCoins, now)

	if sk := e.state.firstSkillInDomain(c.Domain); sk != nil {
		_, applied := e.awardSkillXP(sk, e.xpReward(c.BonusXP, now), now)
		res.ChainXP = applied
	}
	e.emit(EventChainCompleted, now, c.ID, res.ChainCoins, c.Title)
	e.log.Info("chain completed", "chain", c.ID, "title", c.Title, "bonus_coins", res.ChainCoins)
}
