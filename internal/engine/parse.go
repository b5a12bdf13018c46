package engine

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// ParseDomain parses user input to a Domain.
// Supported: physical, mental, technical, creative and a few aliases.
// If input is empty or unrecognized, returns DefaultDomain.
func ParseDomain(input string) Domain {
	s := strings.TrimSpace(strings.ToLower(input))
	switch s {
	case "":
		return DefaultDomain
	case "body", "fitness", "health":
		return DomainPhysical
	case "mind", "learning":
		return DomainMental
	case "tech", "code", "coding":
		return DomainTechnical
	case "art", "craft":
		return DomainCreative
	}
	if d := Domain(titleCaser.String(s)); d.IsValid() {
		return d
	}
	return DefaultDomain
}

// ParseDifficulty accepts e/m/h or the full names; anything else is Medium.
func ParseDifficulty(input string) Difficulty {
	switch strings.TrimSpace(strings.ToLower(input)) {
	case "e", "easy":
		return DifficultyEasy
	case "h", "hard":
		return DifficultyHard
	default:
		return DifficultyMedium
	}
}

// ParsePunishment parses "kind:amount", e.g. "coin_loss:20" or "streak_break".
func ParsePunishment(input string) (*Punishment, error) {
	s := strings.TrimSpace(strings.ToLower(input))
	if s == "" {
		return nil, nil
	}
	kind, amount, _ := strings.Cut(s, ":")
	p := &Punishment{Kind: PunishmentKind(strings.ReplaceAll(kind, "-", "_"))}
	if !p.Kind.IsValid() {
		return nil, InputError{Field: "punishment", Reason: fmt.Sprintf("has unknown kind %q", kind)}
	}
	if amount != "" {
		if _, err := fmt.Sscanf(amount, "%d", &p.Amount); err != nil || p.Amount < 0 {
			return nil, InputError{Field: "punishment", Reason: fmt.Sprintf("has bad amount %q", amount)}
		}
	}
	return p, nil
}
