package main

import (
	"time"

	"github.com/telefiles/gatekeeper/bot"
	"github.com/telefiles/gatekeeper/config"
	"github.com/telefiles/gatekeeper/pkg/log"
	"github.com/telefiles/gatekeeper/service"
	"github.com/telefiles/gatekeeper/webserver/router"
)

func main() {
	cfg := config.GetConfig()
	if err := service.Setup(service.Options{
		Secret:           cfg.SecretKey,
		AccessLimit:      cfg.AccessLimit,
		PeriodHours:      cfg.VerificationPeriodH,
		ChallengeTimeout: time.Duration(cfg.VerifyTimeoutSec) * time.Second,
		CallbackBase:     "https://" + cfg.Host,
		BotUsername:      cfg.BotUsername,
		Shortener: &service.ShortlinkAPI{
			Endpoint: cfg.ShortlinkEndpoint,
			APIKey:   cfg.ShortlinkApiKey,
		},
	}); err != nil {
		log.Fatal("%v", err)
	}
	GoBackgrounds()
	if cfg.BotToken != "" {
		go func() {
			if _, err := bot.New(cfg.BotToken, nil); err != nil {
				log.Fatal("Bot: %v", err)
			}
		}()
	}
	if err := router.Run(); err != nil {
		log.Fatal("%v", err)
	}
}
