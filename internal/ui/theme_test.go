package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "[#####-----]", ProgressBar(5, 10, 10))
	assert.Equal(t, "[----------]", ProgressBar(-3, 10, 10))
	assert.Equal(t, "[##########]", ProgressBar(50, 10, 10))
	assert.Equal(t, "[---]", ProgressBar(0, 0, 1))
}

func TestTextHelpersKeepContent(t *testing.T) {
	assert.True(t, strings.Contains(StatusText("completed"), "completed"))
	assert.True(t, strings.Contains(RankText("SSS"), "SSS"))
	assert.True(t, strings.Contains(LabelValue("Coins", 12), "12"))
	assert.Equal(t, "💻", DomainIcon("Technical"))
	assert.Equal(t, IconDaily, KindIcon(true, true))
}
