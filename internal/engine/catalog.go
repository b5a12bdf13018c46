package engine

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var builtinCatalogYAML []byte

type Reward struct {
	XP    int `yaml:"xp"`
	Coins int `yaml:"coins"`
}

// ShopItem is an immutable catalog definition. Ownership and activation are
// tracked on User, never here.
type ShopItem struct {
	ID            string   `yaml:"id"`
	Name          string   `yaml:"name"`
	Description   string   `yaml:"description"`
	Category      string   `yaml:"category"`
	Price         int      `yaml:"price"`
	Kind          ItemKind `yaml:"kind"`
	Value         float64  `yaml:"value"`
	DurationHours int      `yaml:"duration_hours"`
	// RewardOnly items are granted by milestones and cannot be bought.
	RewardOnly bool `yaml:"reward_only"`
}

type milestoneDef struct {
	ID    string   `yaml:"id"`
	Days  int      `yaml:"days"`
	Coins int      `yaml:"coins"`
	Items []string `yaml:"items"`
}

type DailyTemplate struct {
	Title       string      `yaml:"title"`
	Description string      `yaml:"description"`
	Difficulty  Difficulty  `yaml:"difficulty"`
	Criteria    []string    `yaml:"criteria"`
	Punishment  *Punishment `yaml:"punishment"`
}

type Catalog struct {
	Rewards    map[Difficulty]Reward      `yaml:"rewards"`
	Shop       []ShopItem                 `yaml:"shop"`
	Milestones []milestoneDef             `yaml:"milestones"`
	Daily      map[Domain][]DailyTemplate `yaml:"daily"`
}

// ParseCatalog decodes and validates a YAML catalog.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	for _, d := range []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard} {
		if _, ok := c.Rewards[d]; !ok {
			return fmt.Errorf("catalog: missing reward for difficulty %s", d)
		}
	}

	seen := map[string]bool{}
	for _, it := range c.Shop {
		id := strings.TrimSpace(it.ID)
		if id == "" {
			return fmt.Errorf("catalog: shop item without id")
		}
		if seen[id] {
			return fmt.Errorf("catalog: duplicate shop item %q", id)
		}
		seen[id] = true
		if !it.Kind.IsValid() {
			return fmt.Errorf("catalog: item %q has invalid kind %q", id, it.Kind)
		}
		if it.Price < 0 {
			return fmt.Errorf("catalog: item %q has negative price", id)
		}
		switch it.Kind {
		case ItemXPMultiplier, ItemCoinMultiplier:
			if it.Value <= 1 || it.DurationHours <= 0 {
				return fmt.Errorf("catalog: booster %q needs value > 1 and a duration", id)
			}
		case ItemStreakFreeze:
			if it.Value < 1 {
				return fmt.Errorf("catalog: freezer %q needs value >= 1 day", id)
			}
		}
	}

	for _, m := range c.Milestones {
		if m.ID == "" || m.Days <= 0 {
			return fmt.Errorf("catalog: milestone needs an id and positive days")
		}
		for _, item := range m.Items {
			if !seen[item] {
				return fmt.Errorf("catalog: milestone %q grants unknown item %q", m.ID, item)
			}
		}
	}

	for _, d := range Domains {
		if len(c.Daily[d]) == 0 {
			return fmt.Errorf("catalog: no daily templates for %s", d)
		}
		for _, t := range c.Daily[d] {
			if t.Title == "" || !t.Difficulty.IsValid() {
				return fmt.Errorf("catalog: bad daily template in %s", d)
			}
			if t.Punishment != nil && !t.Punishment.Kind.IsValid() {
				return fmt.Errorf("catalog: template %q has invalid punishment", t.Title)
			}
		}
	}
	return nil
}

var builtinCatalog = mustParseCatalog(builtinCatalogYAML)

func mustParseCatalog(data []byte) *Catalog {
	c, err := ParseCatalog(data)
	if err != nil {
		panic(err)
	}
	return c
}

// DefaultCatalog returns the catalog embedded in the binary.
func DefaultCatalog() *Catalog { return builtinCatalog }

func (c *Catalog) Item(id string) (ShopItem, bool) {
	for _, it := range c.Shop {
		if it.ID == id {
			return it, true
		}
	}
	return ShopItem{}, false
}

// RewardFor returns the base XP/coin reward for a difficulty, falling back to Medium.
func (c *Catalog) RewardFor(d Difficulty) Reward {
	if r, ok := c.Rewards[d]; ok {
		return r
	}
	return c.Rewards[DifficultyMedium]
}

// NewMilestones returns a fresh unclaimed milestone list.
func (c *Catalog) NewMilestones() []Milestone {
	out := make([]Milestone, 0, len(c.Milestones))
	for _, m := range c.Milestones {
		out = append(out, Milestone{
			ID:            m.ID,
			ThresholdDays: m.Days,
			RewardCoins:   m.Coins,
			RewardItemIDs: append([]string(nil), m.Items...),
		})
	}
	return out
}
