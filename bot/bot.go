package bot

import (
	"fmt"
	"time"

	"github.com/telefiles/gatekeeper/common"
	tb "gopkg.in/tucnak/telebot.v2"
)

type Bot struct {
	Bot *tb.Bot
}

func New(token string, poller *tb.LongPoller) (*Bot, error) {
	if poller == nil {
		poller = &tb.LongPoller{Timeout: 15 * time.Second}
	}
	b, err := tb.NewBot(tb.Settings{
		Token:  token,
		Poller: poller,
	})
	if err != nil {
		return nil, err
	}
	bot := &Bot{
		Bot: b,
	}
	b.Handle("/start", func(m *tb.Message) {
		bot.Start(m)
	})
	b.Start()
	return bot, nil
}

// SubjectIdentifier derives the gateway-side subject ID from a messaging
// platform user. Raw platform IDs never leave this function.
func (b *Bot) SubjectIdentifier(u *tb.User) string {
	return common.StringToUUID5(fmt.Sprintf("%v", u.ID))
}
