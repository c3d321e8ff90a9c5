package domain

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/alphalist/backend/internal/domain/giveawayrule"
	"github.com/alphalist/backend/internal/entity"
	"github.com/alphalist/backend/internal/model"
	"github.com/alphalist/backend/internal/repository"
	"github.com/alphalist/backend/pkg/crypto"
	"github.com/alphalist/backend/pkg/enum"
	"github.com/alphalist/backend/pkg/errorx"
	"github.com/alphalist/backend/pkg/xcontext"
	"github.com/fatih/structs"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GiveawayDomain interface {
	Create(context.Context, *model.CreateGiveawayRequest) (*model.CreateGiveawayResponse, error)
	Enter(context.Context, *model.EnterGiveawayRequest) (*model.EnterGiveawayResponse, error)
	ValidateEligibility(context.Context, *model.ValidateEligibilityRequest) (*model.ValidateEligibilityResponse, error)
	Draw(context.Context, *model.DrawGiveawayRequest) (*model.DrawGiveawayResponse, error)
}

type giveawayDomain struct {
	giveawayRepo repository.GiveawayRepository
	userRepo     repository.UserRepository
	oauth2Repo   repository.OAuth2Repository
	ruleFactory  giveawayrule.Factory
	aggregator   giveawayrule.Aggregator
	sampler      Sampler
}

func NewGiveawayDomain(
	giveawayRepo repository.GiveawayRepository,
	userRepo repository.UserRepository,
	oauth2Repo repository.OAuth2Repository,
	ruleFactory giveawayrule.Factory,
	sampler Sampler,
) *giveawayDomain {
	return &giveawayDomain{
		giveawayRepo: giveawayRepo,
		userRepo:     userRepo,
		oauth2Repo:   oauth2Repo,
		ruleFactory:  ruleFactory,
		aggregator:   giveawayrule.NewAggregator(ruleFactory),
		sampler:      sampler,
	}
}

func (d *giveawayDomain) Create(
	ctx context.Context, req *model.CreateGiveawayRequest,
) (*model.CreateGiveawayResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "User is not authenticated")
	}

	if req.Slug == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty slug")
	}

	giveawayType, err := enum.ToEnum[entity.GiveawayType](req.Type)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Invalid giveaway type: %v", err)
		return nil, errorx.New(errorx.BadRequest, "Invalid giveaway type %s", req.Type)
	}

	// FCFS needs a capacity and a raffle draw sizes its winner set by it.
	if req.MaxWinners <= 0 {
		return nil, errorx.New(errorx.BadRequest, "Max winners must be positive")
	}

	if !req.EndsAt.After(req.StartsAt) {
		return nil, errorx.New(errorx.BadRequest, "The end time must be after the start time")
	}

	rules := []entity.Rule{}
	for _, r := range req.Rules {
		ruleType, err := enum.ToEnum[entity.RuleType](r.Type)
		if err != nil {
			xcontext.Logger(ctx).Debugf("Invalid rule type: %v", err)
			return nil, errorx.New(errorx.BadRequest, "Invalid rule type %s", r.Type)
		}

		rule := entity.Rule{Type: ruleType, Data: r.Data}
		evaluator, err := d.ruleFactory.NewEvaluator(ctx, rule, true)
		if err != nil {
			return nil, err
		}

		// Store the parsed payload, not the raw client input.
		rule.Data = structs.Map(evaluator)
		rules = append(rules, rule)
	}

	giveaway := &entity.Giveaway{
		Base:                entity.Base{ID: uuid.NewString()},
		Slug:                req.Slug,
		CreatedBy:           userID,
		Type:                giveawayType,
		Status:              entity.GiveawayRunning,
		Network:             req.Network,
		MaxWinners:          req.MaxWinners,
		Rules:               rules,
		PreventDuplicateIps: req.PreventDuplicateIps,
		StartsAt:            req.StartsAt,
		EndsAt:              req.EndsAt,
	}

	if err := d.giveawayRepo.Create(ctx, giveaway); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errorx.New(errorx.AlreadyExists, "The slug is already taken")
		}

		xcontext.Logger(ctx).Errorf("Cannot create giveaway: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateGiveawayResponse{ID: giveaway.ID}, nil
}

func (d *giveawayDomain) ValidateEligibility(
	ctx context.Context, req *model.ValidateEligibilityRequest,
) (*model.ValidateEligibilityResponse, error) {
	giveaway, err := d.loadRunningGiveaway(ctx, req.GiveawaySlug)
	if err != nil {
		return nil, err
	}

	claimant, err := d.loadClaimant(ctx, giveaway, req.WalletAddress, req.TweetURL)
	if err != nil {
		return nil, err
	}

	aggregate := d.aggregator.Evaluate(ctx, giveaway.Rules, claimant)
	return &model.ValidateEligibilityResponse{
		IsSuccess:    aggregate.IsSuccess,
		ErrorMessage: aggregate.ErrorMessage,
		Results:      model.ConvertRuleResults(aggregate.Results),
	}, nil
}

func (d *giveawayDomain) Enter(
	ctx context.Context, req *model.EnterGiveawayRequest,
) (*model.EnterGiveawayResponse, error) {
	giveaway, err := d.loadRunningGiveaway(ctx, req.GiveawaySlug)
	if err != nil {
		return nil, err
	}

	claimant, err := d.loadClaimant(ctx, giveaway, req.WalletAddress, req.TweetURL)
	if err != nil {
		return nil, err
	}

	if _, err := d.giveawayRepo.GetEntry(ctx, giveaway.ID, claimant.UserID); err == nil {
		return nil, errorx.New(errorx.AlreadyEntered, "You have already entered this giveaway")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get entry: %v", err)
		return nil, errorx.Unknown
	}

	var ipHash sql.NullString
	if giveaway.PreventDuplicateIps {
		if remoteAddr := xcontext.RequestRemoteAddress(ctx); remoteAddr != "" {
			ipHash = sql.NullString{
				String: crypto.HMACSha256(remoteAddr, xcontext.Configs(ctx).Giveaway.IPSecret),
				Valid:  true,
			}
		}
	}

	// Reject a duplicated address before any rule calls external services.
	// The unique index remains the backstop for racing attempts.
	if ipHash.Valid {
		if _, err := d.giveawayRepo.GetEntryByIpHash(ctx, giveaway.ID, ipHash.String); err == nil {
			return nil, errorx.New(errorx.AlreadyEntered, "An entry from this address already exists")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot get entry by ip hash: %v", err)
			return nil, errorx.Unknown
		}
	}

	aggregate := d.aggregator.Evaluate(ctx, giveaway.Rules, claimant)
	resp := &model.EnterGiveawayResponse{
		IsSuccess:    aggregate.IsSuccess,
		ErrorMessage: aggregate.ErrorMessage,
		Results:      model.ConvertRuleResults(aggregate.Results),
	}

	if !aggregate.IsSuccess {
		return resp, nil
	}

	entry := &entity.GiveawayEntry{
		Base:          entity.Base{ID: uuid.NewString()},
		GiveawayID:    giveaway.ID,
		UserID:        claimant.UserID,
		WalletAddress: claimant.WalletAddress,
		EntryAmount:   aggregate.Multiplier,
		IpHash:        ipHash,
	}

	if len(aggregate.UniqueConstraints) > 0 {
		entry.UniqueConstraint = sql.NullString{String: aggregate.UniqueConstraints[0], Valid: true}
	}

	if account, ok := claimant.Accounts[xcontext.Configs(ctx).Auth.Discord.Name]; ok {
		entry.DiscordUserID = account.ServiceUserID
	}

	switch giveaway.Type {
	case entity.GiveawayFCFS:
		err = d.admitFCFS(ctx, giveaway, entry)
	case entity.GiveawayRaffle:
		err = d.giveawayRepo.CreateEntry(ctx, entry)
	default:
		return nil, errorx.New(errorx.Internal, "Unsupported giveaway type %s", giveaway.Type)
	}

	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, d.duplicatedEntryError(ctx, giveaway, entry)
		}

		var errx errorx.Error
		if errors.As(err, &errx) {
			return nil, errx
		}

		xcontext.Logger(ctx).Errorf("Cannot create entry: %v", err)
		return nil, errorx.Unknown
	}

	// The FCFS slot reservation already counted the entry. The raffle display
	// counter is best-effort and never blocks admission.
	if giveaway.Type == entity.GiveawayRaffle {
		if err := d.giveawayRepo.IncreaseEntryCount(ctx, giveaway.ID); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot increase entry count: %v", err)
		}
	}

	resp.Entry = model.ConvertGiveawayEntry(entry)
	return resp, nil
}

// admitFCFS reserves a capacity slot and inserts the entry in one
// transaction, finalizing the giveaway when the last slot is taken. The
// guarded slot increment both bounds admissions to max_winners and row
// locks the giveaway, so the recount below is serialized against every
// concurrent admission and stays authoritative.
func (d *giveawayDomain) admitFCFS(
	ctx context.Context, giveaway *entity.Giveaway, entry *entity.GiveawayEntry,
) error {
	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.giveawayRepo.CheckAndTakeSlot(ctx, giveaway.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorx.New(errorx.GiveawayFull, "The giveaway is full")
		}

		return err
	}

	isWinner := true
	entry.IsWinner = &isWinner
	if err := d.giveawayRepo.CreateEntry(ctx, entry); err != nil {
		return err
	}

	count, err := d.giveawayRepo.CountEntries(ctx, giveaway.ID)
	if err != nil {
		return err
	}

	if count > int64(giveaway.MaxWinners) {
		return errorx.New(errorx.GiveawayFull, "The giveaway is full")
	}

	if count == int64(giveaway.MaxWinners) {
		if err := d.giveawayRepo.Finalize(ctx, giveaway.ID, time.Now()); err != nil {
			return err
		}
	}

	xcontext.WithCommitDBTransaction(ctx)
	return nil
}

func (d *giveawayDomain) loadRunningGiveaway(
	ctx context.Context, slug string,
) (*entity.Giveaway, error) {
	giveaway, err := d.giveawayRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found giveaway")
		}

		xcontext.Logger(ctx).Errorf("Cannot get giveaway: %v", err)
		return nil, errorx.Unknown
	}

	if giveaway.Status != entity.GiveawayRunning {
		return nil, errorx.New(errorx.Unavailable, "The giveaway is not running")
	}

	now := time.Now()
	if now.Before(giveaway.StartsAt) {
		return nil, errorx.New(errorx.Unavailable, "The giveaway has not started yet")
	}

	if now.After(giveaway.EndsAt) {
		return nil, errorx.New(errorx.Unavailable, "The giveaway has ended")
	}

	return giveaway, nil
}

// loadClaimant snapshots the user's wallet and linked accounts before any
// transaction opens. A wallet is required unless the giveaway network is
// still undecided.
func (d *giveawayDomain) loadClaimant(
	ctx context.Context, giveaway *entity.Giveaway, walletAddress, tweetURL string,
) (giveawayrule.Claimant, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return giveawayrule.Claimant{}, errorx.New(errorx.Unauthenticated, "User is not authenticated")
	}

	user, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return giveawayrule.Claimant{}, errorx.Unknown
	}

	if walletAddress == "" {
		walletAddress = user.WalletAddress
	}

	if giveaway.Network != "TBD" && walletAddress == "" {
		return giveawayrule.Claimant{}, errorx.New(errorx.BadRequest, "A wallet address is required")
	}

	accounts, err := d.oauth2Repo.GetByUserID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get linked accounts: %v", err)
		return giveawayrule.Claimant{}, errorx.Unknown
	}

	claimant := giveawayrule.Claimant{
		UserID:        userID,
		WalletAddress: walletAddress,
		Accounts:      map[string]giveawayrule.LinkedAccount{},
		TweetURL:      tweetURL,
	}

	for _, account := range accounts {
		claimant.Accounts[account.Service] = giveawayrule.LinkedAccount{
			Service:       account.Service,
			ServiceUserID: account.ServiceUserID,
			Username:      account.Username,
		}
	}

	return claimant, nil
}

// duplicatedEntryError maps a unique key violation to the precise rejection.
func (d *giveawayDomain) duplicatedEntryError(
	ctx context.Context, giveaway *entity.Giveaway, entry *entity.GiveawayEntry,
) error {
	if _, err := d.giveawayRepo.GetEntry(ctx, giveaway.ID, entry.UserID); err == nil {
		return errorx.New(errorx.AlreadyEntered, "You have already entered this giveaway")
	}

	if entry.IpHash.Valid {
		if _, err := d.giveawayRepo.GetEntryByIpHash(ctx, giveaway.ID, entry.IpHash.String); err == nil {
			return errorx.New(errorx.AlreadyEntered, "An entry from this address already exists")
		}
	}

	if entry.UniqueConstraint.Valid {
		if _, err := d.giveawayRepo.GetEntryByUniqueConstraint(
			ctx, giveaway.ID, entry.UniqueConstraint.String); err == nil {
			return errorx.New(errorx.AlreadyEntered, "This account has already been used to enter")
		}
	}

	return errorx.New(errorx.AlreadyEntered, "You have already entered this giveaway")
}

// Draw selects the raffle winners over a snapshot of the accumulated
// entries, weighted by entry amount, and finalizes the giveaway. A giveaway
// can be drawn once.
func (d *giveawayDomain) Draw(
	ctx context.Context, req *model.DrawGiveawayRequest,
) (*model.DrawGiveawayResponse, error) {
	giveaway, err := d.giveawayRepo.GetBySlug(ctx, req.GiveawaySlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found giveaway")
		}

		xcontext.Logger(ctx).Errorf("Cannot get giveaway: %v", err)
		return nil, errorx.Unknown
	}

	if giveaway.Type != entity.GiveawayRaffle {
		return nil, errorx.New(errorx.BadRequest, "Only raffle giveaways are drawn")
	}

	if giveaway.Status != entity.GiveawayRunning {
		return nil, errorx.New(errorx.AlreadyExists, "The giveaway has already been drawn")
	}

	entries, err := d.giveawayRepo.GetEntriesByGiveawayID(ctx, giveaway.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get entries: %v", err)
		return nil, errorx.Unknown
	}

	candidates := make([]WeightedCandidate, 0, len(entries))
	entryByUser := map[string]*entity.GiveawayEntry{}
	for i := range entries {
		candidates = append(candidates, WeightedCandidate{
			UserID: entries[i].UserID,
			Weight: float64(entries[i].EntryAmount),
		})
		entryByUser[entries[i].UserID] = &entries[i]
	}

	attempts := giveaway.MaxWinners * xcontext.Configs(ctx).Lottery.SampleAttemptFactor
	picked := map[string]bool{}
	winners := []*entity.GiveawayEntry{}
	for len(winners) < giveaway.MaxWinners && attempts > 0 {
		attempts--
		i, ok := d.sampler.Pick(candidates)
		if !ok || picked[candidates[i].UserID] {
			continue
		}

		picked[candidates[i].UserID] = true
		winners = append(winners, entryByUser[candidates[i].UserID])
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	resp := &model.DrawGiveawayResponse{Winners: []model.GiveawayEntry{}}
	for _, entry := range winners {
		if err := d.giveawayRepo.SetEntryWinner(ctx, entry.ID); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot set entry winner: %v", err)
			return nil, errorx.Unknown
		}

		isWinner := true
		entry.IsWinner = &isWinner
		resp.Winners = append(resp.Winners, *model.ConvertGiveawayEntry(entry))
	}

	if err := d.giveawayRepo.Finalize(ctx, giveaway.ID, time.Now()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.AlreadyExists, "The giveaway has already been drawn")
		}

		xcontext.Logger(ctx).Errorf("Cannot finalize giveaway: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)
	return resp, nil
}
