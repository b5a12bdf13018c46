package root

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchID(t *testing.T) {
	ids := []string{
		"0190f3a2-7b1c-7000-8000-00000000aa11",
		"0190f3a2-7b1c-7000-8000-00000000ba11",
	}

	got, err := matchID("quest", "aa11", ids)
	require.NoError(t, err)
	assert.Equal(t, ids[0], got)

	got, err = matchID("quest", ids[1], ids)
	require.NoError(t, err)
	assert.Equal(t, ids[1], got)

	_, err = matchID("quest", "a11", ids)
	assert.ErrorContains(t, err, "ambiguous")
	_, err = matchID("quest", "ffff", ids)
	assert.ErrorContains(t, err, "not found")
	_, err = matchID("quest", " ", ids)
	assert.Error(t, err)
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "00aa11ff", shortID("0190f3a2-7b1c-7000-8000-000000aa11ff"))
	assert.Equal(t, "abc", shortID("abc"))
}
