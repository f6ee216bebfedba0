package slack

import (
	"context"
	"errors"
	"testing"

	"github.com/mvoss42/tabletally/internal/league"
	"github.com/mvoss42/tabletally/internal/metrics"
	slackapi "github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockSlackAPI is a mock implementation of the parts of the slack.Client that we use.
type mockSlackAPI struct {
	postMessageContextFunc func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error)
}

func (m *mockSlackAPI) PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
	if m.postMessageContextFunc != nil {
		return m.postMessageContextFunc(ctx, channelID, options...)
	}
	return "C12345", "123456789.12345", nil
}

func testGame() *league.Game {
	return &league.Game{
		ID:         1,
		ReportDate: "2026-08-01 18:30:00",
		Notes:      "league night",
		Participants: []league.GameParticipant{
			{UserID: 2, UserName: "Bob", FactionID: 2, FactionName: "Verdant Pact", Points: 30, Ranking: 2},
			{UserID: 1, UserName: "Alice", FactionID: 1, FactionName: "Crimson Order", Points: 42, Ranking: 1},
		},
	}
}

func TestSendMessage_DryRun(t *testing.T) {
	metrics := metrics.NewMock()
	// Pass nil for the api, as it shouldn't be called in dry-run mode.
	notifier := NewNotifierWithAPI(nil, "C123", metrics)

	err := notifier.SendGameResult(testGame(), true)
	require.NoError(t, err)
	assert.Equal(t, 0, metrics.SlackNotifSentCount)
}

func TestSendMessage_Success(t *testing.T) {
	postMessageCalled := false
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			postMessageCalled = true
			assert.Equal(t, "C123", channelID)
			return "C123", "ts123", nil
		},
	}

	metrics := metrics.NewMock()
	notifier := NewNotifierWithAPI(api, "C123", metrics)

	err := notifier.SendGameResult(testGame(), false)

	require.NoError(t, err)
	assert.True(t, postMessageCalled, "PostMessageContext should have been called")
	assert.Equal(t, 1, metrics.SlackNotifSentCount)
	assert.Equal(t, 0, metrics.SlackNotifFailedCount)
}

func TestSendMessage_Failure(t *testing.T) {
	expectedErr := errors.New("slack API is down")
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			return "", "", expectedErr
		},
	}

	metrics := metrics.NewMock()
	notifier := NewNotifierWithAPI(api, "C123", metrics)

	err := notifier.SendGameResult(testGame(), false)

	require.Error(t, err)
	assert.ErrorIs(t, err, expectedErr)
	assert.Equal(t, 0, metrics.SlackNotifSentCount)
	assert.Equal(t, 1, metrics.SlackNotifFailedCount)
}

func TestFormatGameResult(t *testing.T) {
	notifier := NewNotifierWithAPI(nil, "C123", metrics.NewMock())

	msg := notifier.FormatGameResult(testGame())
	blocks := msg.Blocks.BlockSet
	require.Len(t, blocks, 3, "expected header, results and notes blocks")

	header, ok := blocks[0].(*slackapi.HeaderBlock)
	require.True(t, ok)
	assert.Contains(t, header.Text.Text, "Game reported")

	section, ok := blocks[1].(*slackapi.SectionBlock)
	require.True(t, ok)
	// Winner listed first even though the participants arrive unsorted.
	assert.Contains(t, section.Text.Text, "1. Alice (Crimson Order) - 42 pts 🏆")
	assert.Contains(t, section.Text.Text, "2. Bob (Verdant Pact) - 30 pts")

	notes, ok := blocks[2].(*slackapi.ContextBlock)
	require.True(t, ok)
	require.Len(t, notes.ContextElements.Elements, 1)
}

func TestFormatGameResult_NoNotes(t *testing.T) {
	notifier := NewNotifierWithAPI(nil, "C123", metrics.NewMock())

	game := testGame()
	game.Notes = ""
	msg := notifier.FormatGameResult(game)
	assert.Len(t, msg.Blocks.BlockSet, 2, "notes block should be omitted")
}
