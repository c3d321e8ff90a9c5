package main

import (
	"net/http"
	"os"
	"strconv"

	"github.com/alphalist/backend/config"
	"github.com/alphalist/backend/internal/domain"
	"github.com/alphalist/backend/internal/domain/giveawayrule"
	"github.com/alphalist/backend/internal/repository"
	"github.com/alphalist/backend/pkg/api/discord"
	"github.com/alphalist/backend/pkg/api/twitter"
	"github.com/alphalist/backend/pkg/blockchain"
	"github.com/alphalist/backend/pkg/blockchain/eth"
	"github.com/alphalist/backend/pkg/logger"
	"github.com/alphalist/backend/pkg/router"
	"github.com/urfave/cli/v2"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type srv struct {
	app *cli.App

	configs *config.Configs
	logger  logger.Logger
	db      *gorm.DB

	discordEndpoint discord.IEndpoint
	twitterEndpoint twitter.IEndpoint
	chainIndexer    blockchain.Indexer

	userRepo       repository.UserRepository
	oauth2Repo     repository.OAuth2Repository
	giveawayRepo   repository.GiveawayRepository
	lotteryRepo    repository.LotteryRepository
	stakerRepo     repository.StakerRepository
	listingRepo    repository.ListingRepository
	recordLockRepo repository.RecordLockRepository

	giveawayDomain    domain.GiveawayDomain
	lotteryDomain     domain.LotteryDomain
	marketplaceDomain domain.MarketplaceDomain

	router *router.Router
	server *http.Server
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}

	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}

	return fallback
}

func (s *srv) loadConfig() {
	s.configs = &config.Configs{
		Env: getEnv("ENV", "local"),
		Database: config.DatabaseConfigs{
			Host:     getEnv("MYSQL_HOST", "localhost"),
			Port:     getEnv("MYSQL_PORT", "3306"),
			Database: getEnv("MYSQL_DATABASE", "alphalist"),
			User:     getEnv("MYSQL_USER", "alphalist"),
			Password: getEnv("MYSQL_PASSWORD", "alphalist"),
		},
		ApiServer: config.ServerConfigs{
			Host: getEnv("API_HOST", "localhost"),
			Port: getEnv("API_PORT", "8080"),
		},
		Auth: config.AuthConfigs{
			Discord: config.DiscordConfigs{
				Name:     "discord",
				BotToken: getEnv("DISCORD_BOT_TOKEN", ""),
				BotID:    getEnv("DISCORD_BOT_ID", ""),
			},
			Twitter: config.TwitterConfigs{
				Name:              "twitter",
				AppAccessToken:    getEnv("TWITTER_APP_ACCESS_TOKEN", ""),
				ConsumerAPIKey:    getEnv("TWITTER_CONSUMER_API_KEY", ""),
				ConsumerAPISecret: getEnv("TWITTER_CONSUMER_API_SECRET", ""),
				AccessToken:       getEnv("TWITTER_ACCESS_TOKEN", ""),
				AccessTokenSecret: getEnv("TWITTER_ACCESS_TOKEN_SECRET", ""),
			},
		},
		Giveaway: config.GiveawayConfigs{
			IPSecret: getEnv("GIVEAWAY_IP_SECRET", "ip-secret"),
		},
		Lottery: config.LotteryConfigs{
			WinnerShareRate:     getEnvFloat("LOTTERY_WINNER_SHARE_RATE", 0.4),
			JackpotProbability:  getEnvFloat("LOTTERY_JACKPOT_PROBABILITY", 0.0343),
			SampleAttemptFactor: getEnvInt("LOTTERY_SAMPLE_ATTEMPT_FACTOR", 5),
		},
		Chain: config.ChainConfigs{
			RPCs: map[string]string{
				"eth": getEnv("ETH_RPC_URL", "https://ethereum-rpc.publicnode.com"),
			},
		},
	}
}

func (s *srv) loadLogger() {
	s.logger = logger.NewLogger(logger.ParseLevel(getEnv("LOG_LEVEL", "info")))
}

func (s *srv) loadEndpoints() {
	s.discordEndpoint = discord.New(s.configs.Auth.Discord)
	s.twitterEndpoint = twitter.New(s.configs.Auth.Twitter)

	indexer, err := eth.NewClient("eth", s.configs.Chain.RPCs["eth"])
	if err != nil {
		panic(err)
	}
	s.chainIndexer = indexer
}

func (s *srv) loadDatabase() {
	var err error
	s.db, err = gorm.Open(mysql.Open(s.configs.Database.ConnectionString()),
		&gorm.Config{TranslateError: true})
	if err != nil {
		panic(err)
	}
}

func (s *srv) loadRepos() {
	s.userRepo = repository.NewUserRepository()
	s.oauth2Repo = repository.NewOAuth2Repository()
	s.giveawayRepo = repository.NewGiveawayRepository()
	s.lotteryRepo = repository.NewLotteryRepository()
	s.stakerRepo = repository.NewStakerRepository()
	s.listingRepo = repository.NewListingRepository()
	s.recordLockRepo = repository.NewRecordLockRepository()
}

func (s *srv) loadDomains() {
	ruleFactory := giveawayrule.NewFactory(
		s.discordEndpoint, s.twitterEndpoint, s.chainIndexer)
	sampler := domain.NewRejectionSampler()

	s.giveawayDomain = domain.NewGiveawayDomain(
		s.giveawayRepo, s.userRepo, s.oauth2Repo, ruleFactory, sampler)
	s.lotteryDomain = domain.NewLotteryDomain(s.lotteryRepo, s.stakerRepo, sampler)
	s.marketplaceDomain = domain.NewMarketplaceDomain(s.listingRepo, s.recordLockRepo)
}
