package ui

import (
	"bytes"
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Confirm
// ---------------------------------------------------------------------------

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"  yes  \n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"yep\n", false},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		got := Confirm(strings.NewReader(tt.input), &out, "Add network?")
		assert.Equal(t, tt.want, got, "input %q", tt.input)
		assert.Contains(t, out.String(), "Add network?")
		assert.Contains(t, out.String(), "[y/N]")
	}
}

// ---------------------------------------------------------------------------
// approval model
// ---------------------------------------------------------------------------

func press(m approvalModel, keys ...tea.KeyMsg) approvalModel {
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(approvalModel)
	}
	return m
}

func runeKey(r rune) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}} }

func TestApprovalModelEnterDefaultsToReject(t *testing.T) {
	m := press(newApprovalModel("Add network", nil), tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, m.decided)
	assert.False(t, m.approved)
}

func TestApprovalModelArrowThenEnterApproves(t *testing.T) {
	m := press(newApprovalModel("Add network", nil),
		tea.KeyMsg{Type: tea.KeyRight},
		tea.KeyMsg{Type: tea.KeyEnter},
	)
	assert.True(t, m.decided)
	assert.True(t, m.approved)
}

func TestApprovalModelToggleBack(t *testing.T) {
	m := press(newApprovalModel("Add network", nil),
		tea.KeyMsg{Type: tea.KeyRight},
		tea.KeyMsg{Type: tea.KeyLeft},
		tea.KeyMsg{Type: tea.KeyEnter},
	)
	assert.False(t, m.approved)
}

func TestApprovalModelQuickKeys(t *testing.T) {
	assert.True(t, press(newApprovalModel("t", nil), runeKey('y')).approved)
	assert.False(t, press(newApprovalModel("t", nil), runeKey('n')).approved)
	assert.False(t, press(newApprovalModel("t", nil), runeKey('q')).approved)

	m := press(newApprovalModel("t", nil), tea.KeyMsg{Type: tea.KeyRight}, tea.KeyMsg{Type: tea.KeyEsc})
	assert.True(t, m.decided)
	assert.False(t, m.approved)
}

func TestApprovalModelIgnoresOtherMessages(t *testing.T) {
	m := newApprovalModel("t", nil)
	next, cmd := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	assert.Nil(t, cmd)
	assert.False(t, next.(approvalModel).decided)
}

func TestApprovalModelView(t *testing.T) {
	m := newApprovalModel("Switch network", [][2]string{{"Network name", "Base"}})
	view := m.View()
	assert.Contains(t, view, "Switch network")
	assert.Contains(t, view, "Base")
	assert.Contains(t, view, "Approve")
	assert.Contains(t, view, "Reject")

	decided := press(m, runeKey('y'))
	assert.Empty(t, decided.View())
}

// ---------------------------------------------------------------------------
// PromptApproval
// ---------------------------------------------------------------------------

func TestPromptApprovalCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ok, err := PromptApproval(ctx, strings.NewReader(""), &bytes.Buffer{}, "Add network", nil)
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, ok)
}
