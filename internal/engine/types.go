package engine

type Domain string

const (
	DomainPhysical  Domain = "Physical"
	DomainMental    Domain = "Mental"
	DomainTechnical Domain = "Technical"
	DomainCreative  Domain = "Creative"
)

// Domains lists every domain in display order.
var Domains = []Domain{DomainPhysical, DomainMental, DomainTechnical, DomainCreative}

func (d Domain) IsValid() bool {
	switch d {
	case DomainPhysical, DomainMental, DomainTechnical, DomainCreative:
		return true
	default:
		return false
	}
}

// DefaultDomain is used when user input is missing/invalid.
const DefaultDomain Domain = DomainMental

type Rank string

const (
	RankE   Rank = "E"
	RankD   Rank = "D"
	RankC   Rank = "C"
	RankB   Rank = "B"
	RankA   Rank = "A"
	RankS   Rank = "S"
	RankSS  Rank = "SS"
	RankSSS Rank = "SSS"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	default:
		return false
	}
}

type QuestStatus string

const (
	QuestActive    QuestStatus = "active"
	QuestCompleted QuestStatus = "completed"
	QuestFailed    QuestStatus = "failed"
	QuestExpired   QuestStatus = "expired"
)

// IsTerminal reports whether no further transition is allowed.
func (s QuestStatus) IsTerminal() bool {
	return s == QuestCompleted || s == QuestFailed || s == QuestExpired
}

type BoostKind string

const (
	BoostXP   BoostKind = "xp"
	BoostCoin BoostKind = "coin"
)

func (k BoostKind) IsValid() bool {
	return k == BoostXP || k == BoostCoin
}

type ItemKind string

const (
	ItemStreakFreeze   ItemKind = "streak_freeze"
	ItemXPMultiplier   ItemKind = "xp_multiplier"
	ItemCoinMultiplier ItemKind = "coin_multiplier"
	ItemBadge          ItemKind = "badge"
	ItemFrame          ItemKind = "frame"
)

func (k ItemKind) IsValid() bool {
	switch k {
	case ItemStreakFreeze, ItemXPMultiplier, ItemCoinMultiplier, ItemBadge, ItemFrame:
		return true
	default:
		return false
	}
}

// IsConsumable reports whether activation uses up the owned item.
func (k ItemKind) IsConsumable() bool {
	switch k {
	case ItemStreakFreeze, ItemXPMultiplier, ItemCoinMultiplier:
		return true
	default:
		return false
	}
}

type PunishmentKind string

const (
	PunishCoinLoss    PunishmentKind = "coin_loss"
	PunishStreakBreak PunishmentKind = "streak_break"
	PunishXPPenalty   PunishmentKind = "xp_penalty"
)

func (k PunishmentKind) IsValid() bool {
	switch k {
	case PunishCoinLoss, PunishStreakBreak, PunishXPPenalty:
		return true
	default:
		return false
	}
}
