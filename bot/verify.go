package bot

import (
	"strings"

	"github.com/telefiles/gatekeeper/pkg/log"
	"github.com/telefiles/gatekeeper/service"
	tb "gopkg.in/tucnak/telebot.v2"
)

const startPrefix = "verify-"

// Start handles the deep link back from the countdown page. The payload is
// "verify-<challengeID>"; completing it turns the challenge into a token.
func (b *Bot) Start(m *tb.Message) {
	payload := strings.TrimSpace(m.Payload)
	if !strings.HasPrefix(payload, startPrefix) {
		_, _ = b.Bot.Reply(m, "Send me a file link to begin.", tb.Silent, tb.NoPreview)
		return
	}
	id := strings.TrimPrefix(payload, startPrefix)
	ch, err := service.GetChallenge(id)
	if err != nil {
		_, _ = b.Bot.Reply(m, err.Error(), tb.Silent, tb.NoPreview)
		return
	}
	if ch.Subject != b.SubjectIdentifier(m.Sender) {
		_, _ = b.Bot.Reply(m, "This verification link belongs to another user.", tb.Silent, tb.NoPreview)
		return
	}
	token, err := service.CompleteChallenge(id)
	if err != nil {
		log.Warn("complete challenge %v: %v", id, err)
		_, _ = b.Bot.Reply(m, err.Error(), tb.Silent, tb.NoPreview)
		return
	}
	_, _ = b.Bot.Reply(m, "Verification passed. Your access token:\n"+token, tb.Silent, tb.NoPreview)
}
