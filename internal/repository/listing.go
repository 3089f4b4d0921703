package repository

import (
	"errors"
	"github.com/DeedLedger/property-marketplace/internal/entity"
	"github.com/patrickmn/go-cache"
)

var (
	ErrListingNotFound = errors.New("listing not found")
)

// ListingRepository is a pure keyed store. All write policy lives in the
// marketplace; callers must have checked slot semantics before Put.
type ListingRepository interface {
	Get(contract string, tokenId uint64) (entity.Listing, error)
	Put(listing entity.Listing)
	Remove(contract string, tokenId uint64)
}

type listingRepository struct {
	store *cache.Cache
}

func NewListingRepository(store *cache.Cache) ListingRepository {
	return listingRepository{store}
}

func (r listingRepository) Get(contract string, tokenId uint64) (entity.Listing, error) {
	item, found := r.store.Get(entity.CreateListingSlug(contract, tokenId))
	if !found {
		return entity.Listing{}, ErrListingNotFound
	}

	listing := item.(entity.Listing)
	if listing.Absent() {
		return entity.Listing{}, ErrListingNotFound
	}

	return listing, nil
}

func (r listingRepository) Put(listing entity.Listing) {
	r.store.Set(listing.Slug(), listing, cache.NoExpiration)
}

func (r listingRepository) Remove(contract string, tokenId uint64) {
	r.store.Delete(entity.CreateListingSlug(contract, tokenId))
}
