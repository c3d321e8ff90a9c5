package domain

import (
	"testing"

	"github.com/alphalist/backend/internal/entity"
	"github.com/alphalist/backend/internal/model"
	"github.com/alphalist/backend/internal/repository"
	"github.com/alphalist/backend/pkg/testutil"
	"github.com/alphalist/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func Test_marketplaceDomain_FulfillListing(t *testing.T) {
	ctx := testutil.CreateFixtureContext()
	listingRepo := repository.NewListingRepository()
	lockRepo := repository.NewRecordLockRepository()
	domain := NewMarketplaceDomain(listingRepo, lockRepo)

	require.NoError(t, listingRepo.Create(ctx, &entity.Listing{
		Base:     entity.Base{ID: "listing1"},
		SellerID: testutil.User1.ID,
		Price:    25,
	}))

	ctx2 := xcontext.WithRequestUserID(ctx, testutil.User2.ID)
	_, err := domain.FulfillListing(ctx2, &model.FulfillListingRequest{ListingID: "listing1"})
	require.NoError(t, err)

	listing, err := listingRepo.GetByID(ctx, "listing1")
	require.NoError(t, err)
	require.True(t, listing.IsSold)
	require.Equal(t, testutil.User2.ID, listing.BuyerID.String)

	// A second fulfillment cannot happen.
	ctx3 := xcontext.WithRequestUserID(ctx, testutil.User3.ID)
	_, err = domain.FulfillListing(ctx3, &model.FulfillListingRequest{ListingID: "listing1"})
	require.Error(t, err)
	require.Equal(t, "The listing has already been sold", err.Error())

	// The lock was released on the way out.
	require.NoError(t, lockRepo.Acquire(ctx, "listing/listing1"))
	require.NoError(t, lockRepo.Release(ctx, "listing/listing1"))
}

func Test_marketplaceDomain_FulfillListing_lockHeld(t *testing.T) {
	ctx := testutil.CreateFixtureContext()
	listingRepo := repository.NewListingRepository()
	lockRepo := repository.NewRecordLockRepository()
	domain := NewMarketplaceDomain(listingRepo, lockRepo)

	require.NoError(t, listingRepo.Create(ctx, &entity.Listing{
		Base:     entity.Base{ID: "listing2"},
		SellerID: testutil.User1.ID,
		Price:    10,
	}))

	// Another caller holds the lock: the operation is treated as already
	// completed elsewhere, not retried.
	require.NoError(t, lockRepo.Acquire(ctx, "listing/listing2"))

	ctx2 := xcontext.WithRequestUserID(ctx, testutil.User2.ID)
	_, err := domain.FulfillListing(ctx2, &model.FulfillListingRequest{ListingID: "listing2"})
	require.Error(t, err)
	require.Equal(t, "The listing is being fulfilled", err.Error())

	listing, err := listingRepo.GetByID(ctx, "listing2")
	require.NoError(t, err)
	require.False(t, listing.IsSold)

	// After release the sale goes through.
	require.NoError(t, lockRepo.Release(ctx, "listing/listing2"))
	_, err = domain.FulfillListing(ctx2, &model.FulfillListingRequest{ListingID: "listing2"})
	require.NoError(t, err)
}

func Test_marketplaceDomain_FulfillListing_notFound(t *testing.T) {
	ctx := testutil.CreateFixtureContext()
	domain := NewMarketplaceDomain(repository.NewListingRepository(), repository.NewRecordLockRepository())

	ctx1 := xcontext.WithRequestUserID(ctx, testutil.User1.ID)
	_, err := domain.FulfillListing(ctx1, &model.FulfillListingRequest{ListingID: "missing"})
	require.Error(t, err)
	require.Equal(t, "Not found listing", err.Error())
}
