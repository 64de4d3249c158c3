// Package share pushes bookmark summaries to external targets. Slack and
// Notion are interface-level stubs for now; wiring the real webhook/API calls
// is tracked separately.
package share

import (
	"context"

	"go.uber.org/zap"
)

type Notifier struct {
	logger *zap.SugaredLogger
}

func NewNotifier(logger *zap.SugaredLogger) *Notifier {
	return &Notifier{logger: logger}
}

// ToSlack sends a bookmark summary to Slack and returns the shared title.
// TODO: call the Slack webhook once the workspace integration is provisioned.
func (n *Notifier) ToSlack(ctx context.Context, title, summary string) (string, error) {
	n.logger.Infow("share to slack", "title", title)
	return title, nil
}

// ToNotion sends a bookmark summary to Notion and returns the shared title.
// TODO: call the Notion integration API once the integration token exists.
func (n *Notifier) ToNotion(ctx context.Context, title, summary string) (string, error) {
	n.logger.Infow("share to notion", "title", title)
	return title, nil
}
