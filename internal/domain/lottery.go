package domain

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/alphalist/backend/internal/entity"
	"github.com/alphalist/backend/internal/model"
	"github.com/alphalist/backend/internal/repository"
	"github.com/alphalist/backend/pkg/crypto"
	"github.com/alphalist/backend/pkg/errorx"
	"github.com/alphalist/backend/pkg/xcontext"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LotteryDomain interface {
	Draw(context.Context, *model.DrawLotteryRequest) (*model.DrawLotteryResponse, error)
	GetWinners(context.Context, *model.GetLotteryWinnersRequest) (*model.GetLotteryWinnersResponse, error)
}

type lotteryDomain struct {
	lotteryRepo repository.LotteryRepository
	stakerRepo  repository.StakerRepository
	sampler     Sampler
}

func NewLotteryDomain(
	lotteryRepo repository.LotteryRepository,
	stakerRepo repository.StakerRepository,
	sampler Sampler,
) *lotteryDomain {
	return &lotteryDomain{
		lotteryRepo: lotteryRepo,
		stakerRepo:  stakerRepo,
		sampler:     sampler,
	}
}

// Draw runs the weighted draw over a snapshot of positive-stake users, then
// the independent jackpot trial, and finalizes the lottery only after every
// winner row is written. A lottery can be drawn once.
func (d *lotteryDomain) Draw(
	ctx context.Context, req *model.DrawLotteryRequest,
) (*model.DrawLotteryResponse, error) {
	lottery, err := d.lotteryRepo.GetByID(ctx, req.LotteryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found lottery")
		}

		xcontext.Logger(ctx).Errorf("Cannot get lottery: %v", err)
		return nil, errorx.Unknown
	}

	if lottery.Processed {
		return nil, errorx.New(errorx.AlreadyExists, "The lottery has already been drawn")
	}

	stakers, err := d.stakerRepo.GetPositiveStaked(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get stakers: %v", err)
		return nil, errorx.Unknown
	}

	candidates := make([]WeightedCandidate, 0, len(stakers))
	for _, staker := range stakers {
		candidates = append(candidates, WeightedCandidate{
			UserID: staker.UserID,
			Weight: staker.StakedAmount,
		})
	}

	winners := d.selectWinners(ctx, lottery, candidates)

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	for i := range winners {
		if err := d.lotteryRepo.CreateWinner(ctx, &winners[i]); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot create lottery winner: %v", err)
			return nil, errorx.Unknown
		}
	}

	if err := d.lotteryRepo.Finalize(ctx, lottery.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.AlreadyExists, "The lottery has already been drawn")
		}

		xcontext.Logger(ctx).Errorf("Cannot finalize lottery: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)
	return &model.DrawLotteryResponse{}, nil
}

func (d *lotteryDomain) GetWinners(
	ctx context.Context, req *model.GetLotteryWinnersRequest,
) (*model.GetLotteryWinnersResponse, error) {
	winners, err := d.lotteryRepo.GetWinnersByLotteryID(ctx, req.LotteryID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get lottery winners: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetLotteryWinnersResponse{Winners: []model.LotteryWinner{}}
	for _, winner := range winners {
		resp.Winners = append(resp.Winners, model.ConvertLotteryWinner(winner))
	}

	return resp, nil
}

// selectWinners computes every winner row of a draw in memory. The attempt
// budget bounds the sampler so sparse weights cannot loop forever; running
// out of attempts ends the draw early with fewer winners.
func (d *lotteryDomain) selectWinners(
	ctx context.Context, lottery *entity.Lottery, candidates []WeightedCandidate,
) []entity.LotteryWinner {
	cfg := xcontext.Configs(ctx).Lottery

	prizeCount := 0
	for _, prize := range lottery.Prizes {
		prizeCount += prize.Quantity
	}

	attempts := (lottery.UsdWinnerCount + prizeCount) * cfg.SampleAttemptFactor
	winners := []entity.LotteryWinner{}

	// USD share winners, at most one share per user.
	usdTaken := map[string]bool{}
	usdWinners := []string{}
	for len(usdWinners) < lottery.UsdWinnerCount && attempts > 0 {
		attempts--
		i, ok := d.sampler.Pick(candidates)
		if !ok || usdTaken[candidates[i].UserID] {
			continue
		}

		usdTaken[candidates[i].UserID] = true
		usdWinners = append(usdWinners, candidates[i].UserID)
	}

	if len(usdWinners) > 0 {
		shuffle(usdWinners)
		shares := splitUsdPool(lottery.UsdPool, cfg.WinnerShareRate, len(usdWinners))
		for i, userID := range usdWinners {
			winners = append(winners, entity.LotteryWinner{
				Base:      entity.Base{ID: uuid.NewString()},
				LotteryID: lottery.ID,
				UserID:    userID,
				UsdAmount: shares[i],
			})
		}
	}

	// Prize inventory, consumed in list order, never the same prize twice
	// for one user.
	awarded := map[string]map[string]bool{}
	for _, prize := range lottery.Prizes {
		for quantity := prize.Quantity; quantity > 0 && attempts > 0; {
			attempts--
			i, ok := d.sampler.Pick(candidates)
			if !ok {
				continue
			}

			userID := candidates[i].UserID
			if awarded[userID][prize.Name] {
				continue
			}

			if awarded[userID] == nil {
				awarded[userID] = map[string]bool{}
			}

			awarded[userID][prize.Name] = true
			quantity--
			winners = append(winners, entity.LotteryWinner{
				Base:      entity.Base{ID: uuid.NewString()},
				LotteryID: lottery.ID,
				UserID:    userID,
				PrizeName: prize.Name,
			})
		}
	}

	// Jackpot is a single independent trial over the full population.
	if len(candidates) > 0 && len(lottery.JackpotPrizes) > 0 {
		if crypto.RandFloat64() < cfg.JackpotProbability {
			names := []string{}
			for _, prize := range lottery.JackpotPrizes {
				names = append(names, prize.Name)
			}

			winner := candidates[crypto.RandIntn(len(candidates))]
			winners = append(winners, entity.LotteryWinner{
				Base:       entity.Base{ID: uuid.NewString()},
				LotteryID:  lottery.ID,
				UserID:     winner.UserID,
				PrizeName:  strings.Join(names, ", "),
				JackpotWon: true,
			})
		}
	}

	return winners
}

// splitUsdPool gives each successive winner rate of what remains of the
// pool, rounded to cents. The rounding residual goes to the last winner.
func splitUsdPool(pool, rate float64, n int) []float64 {
	shares := make([]float64, n)
	remaining := pool
	exactCents := 0.0
	roundedCents := 0.0
	for i := 0; i < n; i++ {
		exact := remaining * rate
		remaining -= exact

		cents := math.Round(exact * 100)
		shares[i] = cents / 100
		exactCents += exact * 100
		roundedCents += cents
	}

	shares[n-1] += (math.Round(exactCents) - roundedCents) / 100
	return shares
}

func shuffle(values []string) {
	for i := len(values) - 1; i > 0; i-- {
		j := crypto.RandIntn(i + 1)
		values[i], values[j] = values[j], values[i]
	}
}
