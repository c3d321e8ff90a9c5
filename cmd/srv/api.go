package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/alphalist/backend/internal/entity"
	"github.com/alphalist/backend/internal/middleware"
	"github.com/alphalist/backend/pkg/router"
	"github.com/alphalist/backend/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startApi(*cli.Context) error {
	s.loadConfig()
	s.loadLogger()
	s.loadEndpoints()
	s.loadDatabase()
	s.loadRepos()
	s.loadDomains()
	s.loadRouter()

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%s", s.configs.ApiServer.Port),
		Handler: s.router.Handler(),
	}

	log.Printf("Starting server on port: %s\n", s.configs.ApiServer.Port)
	if err := s.server.ListenAndServe(); err != nil {
		panic(err)
	}

	return nil
}

func (s *srv) migrate(*cli.Context) error {
	s.loadConfig()
	s.loadLogger()
	s.loadDatabase()

	ctx := xcontext.WithDB(context.Background(), s.db)
	return entity.MigrateTable(ctx)
}

func (s *srv) loadRouter() {
	s.router = router.New(*s.configs, s.logger, s.db)

	// Public API
	publicRouter := s.router.Group("")
	{
		router.GET(publicRouter, "/getLotteryWinners", s.lotteryDomain.GetWinners)
	}

	// These following APIs need an authenticated user.
	authRouter := s.router.Group("")
	authRouter.Use(middleware.MustAuthenticate())
	{
		// Giveaway API
		router.POST(authRouter, "/createGiveaway", s.giveawayDomain.Create)
		router.POST(authRouter, "/enterGiveaway", s.giveawayDomain.Enter)
		router.GET(authRouter, "/validateEligibility", s.giveawayDomain.ValidateEligibility)
		router.POST(authRouter, "/drawGiveaway", s.giveawayDomain.Draw)

		// Lottery API
		router.POST(authRouter, "/drawLottery", s.lotteryDomain.Draw)

		// Marketplace API
		router.POST(authRouter, "/fulfillListing", s.marketplaceDomain.FulfillListing)
	}
}
