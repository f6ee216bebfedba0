package slack

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mvoss42/tabletally/internal/league"
	"github.com/slack-go/slack"
)

// FormatGameResult creates the Slack message for a reported game using Block Kit.
func (s *Notifier) FormatGameResult(game *league.Game) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "⚔️ Game reported! ⚔️", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	// Participants sorted by ranking, winner first.
	participants := make([]league.GameParticipant, len(game.Participants))
	copy(participants, game.Participants)
	sort.Slice(participants, func(i, j int) bool {
		return participants[i].Ranking < participants[j].Ranking
	})

	var lines []string
	for _, p := range participants {
		line := fmt.Sprintf("%d. %s (%s) - %d pts", p.Ranking, p.UserName, p.FactionName, p.Points)
		if p.Ranking == 1 {
			line += " 🏆"
		}
		lines = append(lines, line)
	}
	if len(lines) > 0 {
		resultsText := "Results:\n" + strings.Join(lines, "\n")
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", resultsText, true, false), nil, nil))
	}

	if game.Notes != "" {
		var contextElements []slack.MixedElement
		contextElements = append(contextElements, slack.NewTextBlockObject("plain_text", game.Notes, true, false))
		blocks = append(blocks, slack.NewContextBlock("", contextElements...))
	}

	return slack.NewBlockMessage(blocks...)
}
