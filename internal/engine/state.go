package engine

import "time"

// HistoryEntry is one audit line appended on every XP award.
type HistoryEntry struct {
	At    time.Time `json:"at"`
	Value int       `json:"value"`
	Note  string    `json:"note"`
}

type Skill struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Domain        Domain         `json:"domain"`
	Level         int            `json:"level"`
	XP            int            `json:"xp"`
	XPToNextLevel int            `json:"xpToNextLevel"`
	TotalXP       int            `json:"totalXp"`
	CreatedAt     time.Time      `json:"createdAt"`
	History       []HistoryEntry `json:"history,omitempty"`
}

type Punishment struct {
	Kind   PunishmentKind `json:"kind" yaml:"kind"`
	Amount int            `json:"amount" yaml:"amount"`
}

type Quest struct {
	ID                 string      `json:"id"`
	Title              string      `json:"title"`
	Description        string      `json:"description,omitempty"`
	Domain             Domain      `json:"domain"`
	Difficulty         Difficulty  `json:"difficulty"`
	XPReward           int         `json:"xpReward"`
	CoinReward         int         `json:"coinReward"`
	Status             QuestStatus `json:"status"`
	Deadline           *time.Time  `json:"deadline,omitempty"`
	IsDaily            bool        `json:"isDaily"`
	ChainID            string      `json:"chainId,omitempty"`
	CompletionCriteria []string    `json:"completionCriteria,omitempty"`
	Punishment         *Punishment `json:"punishment,omitempty"`
	CreatedAt          time.Time   `json:"createdAt"`
	CompletedAt        *time.Time  `json:"completedAt,omitempty"`

	// StreakApplied marks rewards already scaled by the streak multiplier
	// when the quest was generated.
	StreakApplied bool `json:"streakApplied,omitempty"`
}

type QuestChain struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Domain     Domain   `json:"domain"`
	QuestIDs   []string `json:"questIds"`
	BonusXP    int      `json:"bonusXp"`
	BonusCoins int      `json:"bonusCoins"`
	Completed  bool     `json:"completed"`
}

type Boost struct {
	ItemID     string    `json:"itemId,omitempty"`
	Kind       BoostKind `json:"kind"`
	Multiplier float64   `json:"multiplier"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

type Milestone struct {
	ID            string   `json:"id"`
	ThresholdDays int      `json:"thresholdDays"`
	RewardCoins   int      `json:"rewardCoins"`
	RewardItemIDs []string `json:"rewardItemIds,omitempty"`
	Claimed       bool     `json:"claimed"`
}

type Streak struct {
	Current          int  `json:"current"`
	Longest          int  `json:"longest"`
	LastUpdatedDay   Day  `json:"lastUpdatedDay,omitempty"`
	FreezeActive     bool `json:"freezeActive"`
	FreezeExpiresDay Day  `json:"freezeExpiresDay,omitempty"`
	// FrozenDay is the missed day a consumed freeze covered. Every streak
	// break attributed to that day stays absorbed.
	FrozenDay Day `json:"frozenDay,omitempty"`
}

type Penalties struct {
	ConsecutiveMissedDays int `json:"consecutiveMissedDays"`
	CoinEarningPenaltyPct int `json:"coinEarningPenaltyPct"`
	StreakDecayPct        int `json:"streakDecayPct"`
	RedemptionRequired    int `json:"redemptionRequired"`
	RedemptionDone        int `json:"redemptionDone"`
	LastMissedDay         Day `json:"lastMissedDay,omitempty"`
}

type ProgressNote struct {
	At    time.Time `json:"at"`
	Notes string    `json:"notes"`
}

type User struct {
	TotalXP         int            `json:"totalXp"`
	Level           int            `json:"level"`
	Rank            Rank           `json:"rank"`
	Coins           int            `json:"coins"`
	Streak          Streak         `json:"streak"`
	Penalties       Penalties      `json:"penalties"`
	ActiveBoosts    []Boost        `json:"activeBoosts"`
	OwnedItemIDs    []string       `json:"ownedItemIds"`
	Milestones      []Milestone    `json:"milestones"`
	EquippedFrame   string         `json:"equippedFrame,omitempty"`
	EquippedBadges  []string       `json:"equippedBadges,omitempty"`
	ProgressHistory []ProgressNote `json:"progressHistory"`
}

func (u *User) owns(itemID string) bool {
	for _, id := range u.OwnedItemIDs {
		if id == itemID {
			return true
		}
	}
	return false
}

func (u *User) grant(itemID string) {
	if !u.owns(itemID) {
		u.OwnedItemIDs = append(u.OwnedItemIDs, itemID)
	}
}

func (u *User) revoke(itemID string) {
	out := u.OwnedItemIDs[:0]
	for _, id := range u.OwnedItemIDs {
		if id != itemID {
			out = append(out, id)
		}
	}
	u.OwnedItemIDs = out
}

// State is the full engine state handed to and from the persistence gateway.
// It is plain data; all behavior lives on Engine.
type State struct {
	Version          int             `json:"version"`
	UserID           string          `json:"userId"`
	User             User            `json:"user"`
	Skills           []Skill         `json:"skills"`
	Quests           []Quest         `json:"quests"`
	Chains           []QuestChain    `json:"chains"`
	DomainRanks      map[Domain]Rank `json:"domainRanks"`
	LastDailyRefresh Day             `json:"lastDailyRefresh,omitempty"`
}

func (s *State) skill(id string) *Skill {
	for i := range s.Skills {
		if s.Skills[i].ID == id {
			return &s.Skills[i]
		}
	}
	return nil
}

func (s *State) quest(id string) *Quest {
	for i := range s.Quests {
		if s.Quests[i].ID == id {
			return &s.Quests[i]
		}
	}
	return nil
}

func (s *State) chain(id string) *QuestChain {
	for i := range s.Chains {
		if s.Chains[i].ID == id {
			return &s.Chains[i]
		}
	}
	return nil
}

// firstSkillInDomain returns the earliest-added skill of the domain.
func (s *State) firstSkillInDomain(d Domain) *Skill {
	for i := range s.Skills {
		if s.Skills[i].Domain == d {
			return &s.Skills[i]
		}
	}
	return nil
}
