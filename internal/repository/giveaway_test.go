package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/alphalist/backend/internal/entity"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func insertRunningGiveaway(t *testing.T, ctx context.Context, id string) {
	require.NoError(t, NewGiveawayRepository().Create(ctx, &entity.Giveaway{
		Base:       entity.Base{ID: id},
		Slug:       id,
		Type:       entity.GiveawayFCFS,
		Status:     entity.GiveawayRunning,
		MaxWinners: 10,
		StartsAt:   time.Now().Add(-time.Hour),
		EndsAt:     time.Now().Add(time.Hour),
	}))
}

func Test_giveawayRepository_Finalize(t *testing.T) {
	ctx := newTestContext(t)
	repo := NewGiveawayRepository()
	insertRunningGiveaway(t, ctx, "g1")

	require.NoError(t, repo.Finalize(ctx, "g1", time.Now()))

	giveaway, err := repo.GetByID(ctx, "g1")
	require.NoError(t, err)
	require.Equal(t, entity.GiveawayFinalized, giveaway.Status)

	// Finalizing is conditional on the running status.
	err = repo.Finalize(ctx, "g1", time.Now())
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func Test_giveawayRepository_CheckAndTakeSlot(t *testing.T) {
	ctx := newTestContext(t)
	repo := NewGiveawayRepository()
	require.NoError(t, repo.Create(ctx, &entity.Giveaway{
		Base:       entity.Base{ID: "g1"},
		Slug:       "g1",
		Type:       entity.GiveawayFCFS,
		Status:     entity.GiveawayRunning,
		MaxWinners: 2,
		StartsAt:   time.Now().Add(-time.Hour),
		EndsAt:     time.Now().Add(time.Hour),
	}))

	require.NoError(t, repo.CheckAndTakeSlot(ctx, "g1"))
	require.NoError(t, repo.CheckAndTakeSlot(ctx, "g1"))

	// The guarded increment never goes past the capacity.
	err := repo.CheckAndTakeSlot(ctx, "g1")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	giveaway, err := repo.GetByID(ctx, "g1")
	require.NoError(t, err)
	require.Equal(t, int64(2), giveaway.EntryCount)

	// A finalized giveaway has no slots even with capacity left.
	insertRunningGiveaway(t, ctx, "g2")
	require.NoError(t, repo.CheckAndTakeSlot(ctx, "g2"))
	require.NoError(t, repo.Finalize(ctx, "g2", time.Now()))
	err = repo.CheckAndTakeSlot(ctx, "g2")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func Test_giveawayRepository_uniqueEntryKeys(t *testing.T) {
	ctx := newTestContext(t)
	repo := NewGiveawayRepository()
	insertRunningGiveaway(t, ctx, "g1")
	insertRunningGiveaway(t, ctx, "g2")

	entry := entity.GiveawayEntry{
		Base:             entity.Base{ID: "e1"},
		GiveawayID:       "g1",
		UserID:           "u1",
		EntryAmount:      1,
		IpHash:           sql.NullString{String: "hash1", Valid: true},
		UniqueConstraint: sql.NullString{String: "discord:1", Valid: true},
	}
	require.NoError(t, repo.CreateEntry(ctx, &entry))

	tests := []struct {
		name    string
		entry   entity.GiveawayEntry
		wantDup bool
	}{
		{
			name: "same user in the same giveaway",
			entry: entity.GiveawayEntry{
				Base: entity.Base{ID: "e2"}, GiveawayID: "g1", UserID: "u1", EntryAmount: 1,
			},
			wantDup: true,
		},
		{
			name: "same ip hash in the same giveaway",
			entry: entity.GiveawayEntry{
				Base: entity.Base{ID: "e3"}, GiveawayID: "g1", UserID: "u2", EntryAmount: 1,
				IpHash: sql.NullString{String: "hash1", Valid: true},
			},
			wantDup: true,
		},
		{
			name: "same unique constraint in the same giveaway",
			entry: entity.GiveawayEntry{
				Base: entity.Base{ID: "e4"}, GiveawayID: "g1", UserID: "u3", EntryAmount: 1,
				UniqueConstraint: sql.NullString{String: "discord:1", Valid: true},
			},
			wantDup: true,
		},
		{
			name: "same user in another giveaway",
			entry: entity.GiveawayEntry{
				Base: entity.Base{ID: "e5"}, GiveawayID: "g2", UserID: "u1", EntryAmount: 1,
			},
		},
		{
			name: "null ip hashes do not collide",
			entry: entity.GiveawayEntry{
				Base: entity.Base{ID: "e6"}, GiveawayID: "g1", UserID: "u4", EntryAmount: 1,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.CreateEntry(ctx, &tt.entry)
			if tt.wantDup {
				require.True(t, errors.Is(err, gorm.ErrDuplicatedKey), "got %v", err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func Test_giveawayRepository_SetEntryWinner(t *testing.T) {
	ctx := newTestContext(t)
	repo := NewGiveawayRepository()
	insertRunningGiveaway(t, ctx, "g1")

	entry := entity.GiveawayEntry{
		Base: entity.Base{ID: "e1"}, GiveawayID: "g1", UserID: "u1", EntryAmount: 1,
	}
	require.NoError(t, repo.CreateEntry(ctx, &entry))

	require.NoError(t, repo.SetEntryWinner(ctx, "e1"))

	got, err := repo.GetEntry(ctx, "g1", "u1")
	require.NoError(t, err)
	require.NotNil(t, got.IsWinner)
	require.True(t, *got.IsWinner)

	// A decided entry is never decided twice.
	err = repo.SetEntryWinner(ctx, "e1")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
