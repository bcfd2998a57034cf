package config

import (
	log2 "log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/stevenroose/gonfig"
	"github.com/telefiles/gatekeeper/common"
	"github.com/telefiles/gatekeeper/db"
	"github.com/telefiles/gatekeeper/pkg/log"
)

type Params struct {
	Address             string `id:"address" short:"a" default:"0.0.0.0:14914" desc:"Listening address"`
	Config              string `id:"config" short:"c" default:"$HOME/.config/gatekeeper" desc:"Gatekeeper configuration directory"`
	Host                string `id:"host" default:"example.org" desc:"Public host of this gateway, used to build callback URLs"`
	BotToken            string `id:"bot-token" desc:"Telegram bot token; bot is disabled when empty"`
	BotUsername         string `id:"bot-username" default:"filegatebot" desc:"Telegram bot username (without @)"`
	SecretKey           string `id:"secret-key" desc:"Symmetric key signing verification tokens; at least 32 bytes"`
	ShortlinkEndpoint   string `id:"shortlink-endpoint" desc:"Base URL of the shortlink provider"`
	ShortlinkApiKey     string `id:"shortlink-api-key" desc:"API key for the shortlink provider"`
	VerifyTimeoutSec    int64  `id:"verify-timeout" default:"600" desc:"Seconds a verification challenge stays completable"`
	AccessLimit         int    `id:"access-limit" default:"3" desc:"Accesses granted per resource within one verification period"`
	VerificationPeriodH int64  `id:"verification-period-hours" default:"24" desc:"Hours before a subject must verify again"`
	CountdownSeconds    int    `id:"countdown-seconds" default:"5" desc:"Countdown shown before the final redirect"`
	RedirectAllowlist   string `id:"redirect-allowlist" default:"t.me" desc:"Comma separated domains the countdown page may redirect to"`
	LogLevel            string `id:"log-level" default:"info" desc:"Optional values: trace, debug, info, warn or error"`
	LogFile             string `id:"log-file" desc:"The path of log file"`
	LogMaxDays          int64  `id:"log-max-days" default:"3" desc:"Maximum number of days to keep log files"`
	LogDisableColor     bool   `id:"log-disable-color"`
	LogDisableTimestamp bool   `id:"log-disable-timestamp"`
}

var params Params

func initFunc() {
	err := gonfig.Load(&params, gonfig.Conf{
		FileDisable:       true,
		FlagIgnoreUnknown: false,
		EnvPrefix:         "GATE_",
	})
	if err != nil {
		if err.Error() != "unexpected word while parsing flags: '-test.v'" {
			log2.Fatal(err)
		}
	}
	// replace all dots of the filename with underlines
	params.Config = filepath.Join(
		filepath.Dir(params.Config),
		strings.ReplaceAll(filepath.Base(params.Config), ".", "_"),
	)
	// expand '~' with user home
	params.Config, err = common.HomeExpand(params.Config)
	if err != nil {
		log2.Fatal(err)
	}
	params.LogFile, err = common.HomeExpand(params.LogFile)
	if err != nil {
		log2.Fatal(err)
	}
	if strings.Contains(params.Config, "$HOME") {
		if h, err := os.UserHomeDir(); err == nil {
			params.Config = strings.ReplaceAll(params.Config, "$HOME", h)
		}
	}
	if err := os.MkdirAll(params.Config, 0700); err != nil {
		log2.Fatal(err)
	}
	logWay := "console"
	if params.LogFile != "" {
		logWay = "file"
	}
	log.InitLog(logWay, params.LogFile, params.LogLevel, params.LogMaxDays, params.LogDisableColor, params.LogDisableTimestamp)
	db.InitDB(params.Config)
}

var once sync.Once

func GetConfig() *Params {
	once.Do(initFunc)
	return &params
}
