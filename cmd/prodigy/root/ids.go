package root

import (
	"fmt"
	"strings"

	"prodigy/internal/engine"
)

// UUIDv7 ids share their leading timestamp bits, so the CLI shows and
// matches the random tail instead.
const shortIDLen = 8

func shortID(id string) string {
	if len(id) <= shortIDLen {
		return id
	}
	return id[len(id)-shortIDLen:]
}

func matchID(kind, arg string, ids []string) (string, error) {
	arg = strings.ToLower(strings.TrimSpace(arg))
	if arg == "" {
		return "", fmt.Errorf("%s id is required", kind)
	}
	var found []string
	for _, id := range ids {
		if id == arg {
			return id, nil
		}
		if strings.HasSuffix(id, arg) {
			found = append(found, id)
		}
	}
	switch len(found) {
	case 0:
		return "", fmt.Errorf("%s %q not found", kind, arg)
	case 1:
		return found[0], nil
	default:
		return "", fmt.Errorf("%s id %q is ambiguous (%d matches)", kind, arg, len(found))
	}
}

func resolveQuest(e *engine.Engine, arg string) (string, error) {
	var ids []string
	for _, q := range e.Quests() {
		ids = append(ids, q.ID)
	}
	return matchID("quest", arg, ids)
}

func resolveSkill(e *engine.Engine, arg string) (string, error) {
	var ids []string
	for _, sk := range e.Skills() {
		ids = append(ids, sk.ID)
	}
	return matchID("skill", arg, ids)
}
