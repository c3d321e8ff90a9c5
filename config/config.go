package config

import "fmt"

type Configs struct {
	Env string

	Database  DatabaseConfigs
	ApiServer ServerConfigs
	Auth      AuthConfigs
	Giveaway  GiveawayConfigs
	Lottery   LotteryConfigs
	Chain     ChainConfigs
}

type DatabaseConfigs struct {
	Host     string
	Port     string
	Database string
	User     string
	Password string
}

func (d *DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type ServerConfigs struct {
	Host string
	Port string
	Cert string
	Key  string
}

type AuthConfigs struct {
	Discord DiscordConfigs
	Twitter TwitterConfigs
}

type DiscordConfigs struct {
	Name     string
	BotToken string
	BotID    string
}

type TwitterConfigs struct {
	Name           string
	AppAccessToken string

	ConsumerAPIKey    string
	ConsumerAPISecret string
	AccessToken       string
	AccessTokenSecret string
}

type GiveawayConfigs struct {
	// IPSecret keys the HMAC applied to client addresses before they are
	// stored on entries.
	IPSecret string
}

type LotteryConfigs struct {
	// WinnerShareRate is the fraction of the remaining USD pool given to each
	// successive winner.
	WinnerShareRate float64

	// JackpotProbability is the chance of a single draw paying out the
	// jackpot prizes.
	JackpotProbability float64

	// SampleAttemptFactor bounds the acceptance-rejection sampling: a draw
	// for n winners gives up after n*SampleAttemptFactor attempts.
	SampleAttemptFactor int
}

type ChainConfigs struct {
	RPCs map[string]string
}
