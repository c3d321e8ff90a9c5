package domain

import (
	"context"
	"testing"
	"time"

	"github.com/alphalist/backend/internal/entity"
	"github.com/alphalist/backend/internal/model"
	"github.com/alphalist/backend/internal/repository"
	"github.com/alphalist/backend/pkg/testutil"
	"github.com/alphalist/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

// sequenceRand returns the given values in order, wrapping around.
func sequenceRand(values ...float64) func() float64 {
	i := 0
	return func() float64 {
		v := values[i%len(values)]
		i++
		return v
	}
}

func lotteryTestContext(jackpotProbability float64) context.Context {
	ctx := testutil.CreateFixtureContext()
	cfg := testutil.MockConfigs()
	cfg.Lottery.JackpotProbability = jackpotProbability
	return xcontext.WithConfigs(ctx, cfg)
}

func insertStakers(t *testing.T, ctx context.Context) {
	stakerRepo := repository.NewStakerRepository()
	require.NoError(t, stakerRepo.Create(ctx, &entity.Staker{
		Base:         entity.Base{ID: "staker1"},
		UserID:       testutil.User1.ID,
		StakedAmount: 100,
	}))
	require.NoError(t, stakerRepo.Create(ctx, &entity.Staker{
		Base:         entity.Base{ID: "staker2"},
		UserID:       testutil.User2.ID,
		StakedAmount: 50,
	}))
}

func insertLottery(t *testing.T, ctx context.Context, lottery *entity.Lottery) {
	lottery.Status = entity.LotteryRunning
	lottery.StartsAt = time.Now().Add(-24 * time.Hour)
	lottery.EndsAt = time.Now()
	require.NoError(t, repository.NewLotteryRepository().Create(ctx, lottery))
}

func Test_lotteryDomain_Draw(t *testing.T) {
	ctx := lotteryTestContext(0)
	insertStakers(t, ctx)

	lottery := &entity.Lottery{
		Base:           entity.Base{ID: "lottery1"},
		UsdPool:        100,
		UsdWinnerCount: 2,
		Prizes: []entity.LotteryPrize{
			{Name: "Gold Pass", Quantity: 1},
			{Name: "Silver Pass", Quantity: 2},
		},
	}
	insertLottery(t, ctx, lottery)

	lotteryRepo := repository.NewLotteryRepository()
	domain := NewLotteryDomain(
		lotteryRepo,
		repository.NewStakerRepository(),
		NewPrefixSumSampler(sequenceRand(0, 0.9)),
	)

	_, err := domain.Draw(ctx, &model.DrawLotteryRequest{LotteryID: lottery.ID})
	require.NoError(t, err)

	winners, err := lotteryRepo.GetWinnersByLotteryID(ctx, lottery.ID)
	require.NoError(t, err)

	usdByUser := map[string]float64{}
	prizesByUser := map[string][]string{}
	for _, w := range winners {
		require.False(t, w.JackpotWon)
		if w.PrizeName == "" {
			usdByUser[w.UserID] = w.UsdAmount
		} else {
			prizesByUser[w.UserID] = append(prizesByUser[w.UserID], w.PrizeName)
		}
	}

	// Both stakers share the pool by the decaying split, in some order.
	require.Len(t, usdByUser, 2)
	total := 0.0
	for _, amount := range usdByUser {
		total += amount
	}
	require.InDelta(t, 64.0, total, 0.001)

	// Inventory is consumed in list order and never the same prize twice
	// for one user.
	awardedPrizes := 0
	for _, prizes := range prizesByUser {
		seen := map[string]bool{}
		for _, p := range prizes {
			require.False(t, seen[p])
			seen[p] = true
		}
		awardedPrizes += len(prizes)
	}
	require.Equal(t, 3, awardedPrizes)

	updated, err := lotteryRepo.GetByID(ctx, lottery.ID)
	require.NoError(t, err)
	require.True(t, updated.Processed)
	require.Equal(t, entity.LotteryFinalized, updated.Status)

	// A finalized lottery cannot be drawn again.
	_, err = domain.Draw(ctx, &model.DrawLotteryRequest{LotteryID: lottery.ID})
	require.Error(t, err)
	require.Equal(t, "The lottery has already been drawn", err.Error())
}

func Test_lotteryDomain_Draw_boundedAttempts(t *testing.T) {
	ctx := lotteryTestContext(0)
	insertStakers(t, ctx)

	lottery := &entity.Lottery{
		Base:           entity.Base{ID: "sparse-lottery"},
		UsdPool:        50,
		UsdWinnerCount: 5,
	}
	insertLottery(t, ctx, lottery)

	lotteryRepo := repository.NewLotteryRepository()

	// The sampler always picks the first staker, so dedup burns the whole
	// attempt budget after one winner. The draw still terminates.
	domain := NewLotteryDomain(
		lotteryRepo,
		repository.NewStakerRepository(),
		NewPrefixSumSampler(func() float64 { return 0 }),
	)

	_, err := domain.Draw(ctx, &model.DrawLotteryRequest{LotteryID: lottery.ID})
	require.NoError(t, err)

	winners, err := lotteryRepo.GetWinnersByLotteryID(ctx, lottery.ID)
	require.NoError(t, err)
	require.Len(t, winners, 1)
	require.Equal(t, testutil.User1.ID, winners[0].UserID)

	updated, err := lotteryRepo.GetByID(ctx, lottery.ID)
	require.NoError(t, err)
	require.True(t, updated.Processed)
}

func Test_lotteryDomain_Draw_jackpot(t *testing.T) {
	ctx := lotteryTestContext(1)
	insertStakers(t, ctx)

	lottery := &entity.Lottery{
		Base:           entity.Base{ID: "jackpot-lottery"},
		UsdPool:        10,
		UsdWinnerCount: 1,
		JackpotPrizes: []entity.LotteryPrize{
			{Name: "Grand Prize", Quantity: 1},
			{Name: "Bonus", Quantity: 1, Sponsored: true},
		},
	}
	insertLottery(t, ctx, lottery)

	lotteryRepo := repository.NewLotteryRepository()
	domain := NewLotteryDomain(
		lotteryRepo,
		repository.NewStakerRepository(),
		NewPrefixSumSampler(sequenceRand(0, 0.9)),
	)

	_, err := domain.Draw(ctx, &model.DrawLotteryRequest{LotteryID: lottery.ID})
	require.NoError(t, err)

	winners, err := lotteryRepo.GetWinnersByLotteryID(ctx, lottery.ID)
	require.NoError(t, err)

	jackpots := []entity.LotteryWinner{}
	for _, w := range winners {
		if w.JackpotWon {
			jackpots = append(jackpots, w)
		}
	}

	// One record awards every jackpot prize.
	require.Len(t, jackpots, 1)
	require.Equal(t, "Grand Prize, Bonus", jackpots[0].PrizeName)
}

func Test_lotteryDomain_Draw_notFound(t *testing.T) {
	ctx := lotteryTestContext(0)
	domain := NewLotteryDomain(
		repository.NewLotteryRepository(),
		repository.NewStakerRepository(),
		NewRejectionSampler(),
	)

	_, err := domain.Draw(ctx, &model.DrawLotteryRequest{LotteryID: "missing"})
	require.Error(t, err)
	require.Equal(t, "Not found lottery", err.Error())
}

func Test_splitUsdPool(t *testing.T) {
	tests := []struct {
		name string
		pool float64
		rate float64
		n    int
		want []float64
	}{
		{
			name: "exact decay",
			pool: 100,
			rate: 0.4,
			n:    3,
			want: []float64{40, 24, 14.4},
		},
		{
			name: "rounding residual goes to the last winner",
			pool: 1.01,
			rate: 0.4,
			n:    2,
			want: []float64{0.40, 0.25},
		},
		{
			name: "single winner",
			pool: 10,
			rate: 0.4,
			n:    1,
			want: []float64{4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitUsdPool(tt.pool, tt.rate, tt.n)
			require.Len(t, got, tt.n)
			for i := range tt.want {
				require.InDelta(t, tt.want[i], got[i], 0.0001)
			}
		})
	}
}

func Test_samplers(t *testing.T) {
	candidates := []WeightedCandidate{
		{UserID: "a", Weight: 1},
		{UserID: "b", Weight: 3},
	}

	t.Run("prefix sum walks cumulative weights", func(t *testing.T) {
		s := NewPrefixSumSampler(sequenceRand(0.1, 0.5, 0.99))
		i, ok := s.Pick(candidates)
		require.True(t, ok)
		require.Equal(t, 0, i)

		i, ok = s.Pick(candidates)
		require.True(t, ok)
		require.Equal(t, 1, i)

		i, ok = s.Pick(candidates)
		require.True(t, ok)
		require.Equal(t, 1, i)
	})

	t.Run("no candidates", func(t *testing.T) {
		_, ok := NewRejectionSampler().Pick(nil)
		require.False(t, ok)
	})

	t.Run("zero weights are never picked", func(t *testing.T) {
		_, ok := NewRejectionSampler().Pick([]WeightedCandidate{{UserID: "a", Weight: 0}})
		require.False(t, ok)
	})

	t.Run("rejection sampler always accepts the heaviest candidate", func(t *testing.T) {
		for i := 0; i < 50; i++ {
			idx, ok := NewRejectionSampler().Pick([]WeightedCandidate{{UserID: "a", Weight: 2}})
			require.True(t, ok)
			require.Equal(t, 0, idx)
		}
	})
}
