package root

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDeadline(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	dl, err := parseDeadline("", now, time.UTC)
	require.NoError(t, err)
	assert.Nil(t, dl)

	dl, err = parseDeadline("36h", now, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, now.Add(36*time.Hour), *dl)

	dl, err = parseDeadline("2026-03-05", now, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC), *dl)

	_, err = parseDeadline("-2h", now, time.UTC)
	assert.Error(t, err)
	_, err = parseDeadline("next tuesday", now, time.UTC)
	assert.Error(t, err)
}

func TestSplitCriteria(t *testing.T) {
	assert.Equal(t, []string{"warm up", "5 sets"}, splitCriteria(" warm up ; ;5 sets"))
	assert.Nil(t, splitCriteria(""))
}
