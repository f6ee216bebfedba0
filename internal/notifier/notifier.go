package notifier

import "github.com/mvoss42/tabletally/internal/league"

// Notifier defines a high-level interface for announcing business events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// SendGameResult announces a newly reported game.
	SendGameResult(game *league.Game, dryRun bool) error
}

// Noop is a Notifier that does nothing. Used when no provider is configured.
type Noop struct{}

func (Noop) SendGameResult(game *league.Game, dryRun bool) error {
	return nil
}
