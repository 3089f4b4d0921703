package marketplace

import (
	"errors"
	"testing"

	"github.com/DeedLedger/property-marketplace/internal/assetregistry"
	"github.com/DeedLedger/property-marketplace/internal/funds"
	"github.com/DeedLedger/property-marketplace/internal/repository"
	"github.com/patrickmn/go-cache"
)

const (
	owner         = "0xowner"
	marketAddress = "0xmarketplace"
	seller        = "0xseller"
	buyer         = "0xbuyer"
	contract      = "0xdeeds"
	tokenId       = uint64(1)
)

type fixture struct {
	market   Marketplace
	registry assetregistry.MemoryRegistry
	bank     funds.MemoryBank
	fees     FeeLedger
	listings repository.ListingRepository
}

func newFixture(listingFee, protocolFeeBps uint64) fixture {
	registry := assetregistry.NewMemoryRegistry(marketAddress)
	bank := funds.NewMemoryBank()
	fees := NewFeeLedger(listingFee, protocolFeeBps)
	listings := repository.NewListingRepository(cache.New(cache.NoExpiration, 0))

	return fixture{
		market:   NewMarketplace(owner, marketAddress, listings, fees, registry, bank),
		registry: registry,
		bank:     bank,
		fees:     fees,
		listings: listings,
	}
}

func (f fixture) mintAndApprove(holder string) {
	f.registry.Mint(contract, tokenId, holder)
	f.registry.ApproveAll(holder, marketAddress)
}

func TestListProperty(t *testing.T) {
	t.Run("creates a listing when the seller holds and approved the asset", func(t *testing.T) {
		f := newFixture(1, 100)
		f.mintAndApprove(seller)

		if err := f.market.ListProperty(seller, contract, tokenId, 100, 1); err != nil {
			t.Fatalf("Expected listing to succeed, got %v", err)
		}

		listing, err := f.market.GetListing(contract, tokenId)
		if err != nil {
			t.Fatalf("Expected listing to exist, got %v", err)
		}
		if listing.Seller != seller || listing.Price != 100 {
			t.Errorf("Unexpected listing %+v", listing)
		}
		if f.market.AccumulatedFees() != 1 {
			t.Errorf("Expected listing fee accrued, got %d", f.market.AccumulatedFees())
		}
	})

	t.Run("accepts a per-asset approval", func(t *testing.T) {
		f := newFixture(0, 100)
		f.registry.Mint(contract, tokenId, seller)
		f.registry.Approve(seller, marketAddress, contract, tokenId)

		if err := f.market.ListProperty(seller, contract, tokenId, 100, 0); err != nil {
			t.Errorf("Expected listing to succeed, got %v", err)
		}
	})

	t.Run("rejects a zero price", func(t *testing.T) {
		f := newFixture(1, 100)
		f.mintAndApprove(seller)

		if err := f.market.ListProperty(seller, contract, tokenId, 0, 1); err != ErrPriceZero {
			t.Errorf("Expected ErrPriceZero, got %v", err)
		}
	})

	t.Run("rejects the wrong listing fee", func(t *testing.T) {
		f := newFixture(5, 100)
		f.mintAndApprove(seller)

		if err := f.market.ListProperty(seller, contract, tokenId, 100, 4); err != ErrWrongListingFee {
			t.Errorf("Expected ErrWrongListingFee, got %v", err)
		}
		if f.market.AccumulatedFees() != 0 {
			t.Errorf("Expected no fee accrued, got %d", f.market.AccumulatedFees())
		}
	})

	t.Run("rejects a caller that does not hold the asset", func(t *testing.T) {
		f := newFixture(1, 100)
		f.mintAndApprove(seller)

		if err := f.market.ListProperty(buyer, contract, tokenId, 100, 1); err != ErrNotAssetHolder {
			t.Errorf("Expected ErrNotAssetHolder, got %v", err)
		}
	})

	t.Run("rejects when the marketplace is not approved", func(t *testing.T) {
		f := newFixture(1, 100)
		f.registry.Mint(contract, tokenId, seller)

		err := f.market.ListProperty(seller, contract, tokenId, 100, 1)
		if err != ErrMarketplaceNotApproved {
			t.Errorf("Expected ErrMarketplaceNotApproved, got %v", err)
		}
		if f.market.AccumulatedFees() != 0 {
			t.Errorf("Expected no fee accrued, got %d", f.market.AccumulatedFees())
		}
		if _, err := f.market.GetListing(contract, tokenId); err != repository.ErrListingNotFound {
			t.Errorf("Expected no listing stored, got %v", err)
		}
	})

	t.Run("rejects a second listing for the same key", func(t *testing.T) {
		f := newFixture(1, 100)
		f.mintAndApprove(seller)

		if err := f.market.ListProperty(seller, contract, tokenId, 100, 1); err != nil {
			t.Fatalf("Expected first listing to succeed, got %v", err)
		}
		if err := f.market.ListProperty(seller, contract, tokenId, 200, 1); err != ErrAlreadyListed {
			t.Errorf("Expected ErrAlreadyListed, got %v", err)
		}
	})
}

func TestCancelListing(t *testing.T) {
	t.Run("restores the absent state", func(t *testing.T) {
		f := newFixture(1, 100)
		f.mintAndApprove(seller)

		if err := f.market.ListProperty(seller, contract, tokenId, 100, 1); err != nil {
			t.Fatalf("Expected listing to succeed, got %v", err)
		}
		if err := f.market.CancelListing(seller, contract, tokenId); err != nil {
			t.Fatalf("Expected cancel to succeed, got %v", err)
		}
		if _, err := f.market.GetListing(contract, tokenId); err != repository.ErrListingNotFound {
			t.Errorf("Expected listing absent, got %v", err)
		}
	})

	t.Run("rejects a caller that is not the seller", func(t *testing.T) {
		f := newFixture(1, 100)
		f.mintAndApprove(seller)

		if err := f.market.ListProperty(seller, contract, tokenId, 100, 1); err != nil {
			t.Fatalf("Expected listing to succeed, got %v", err)
		}
		if err := f.market.CancelListing(buyer, contract, tokenId); err != ErrNotSeller {
			t.Errorf("Expected ErrNotSeller, got %v", err)
		}
	})

	t.Run("rejects when nothing is listed", func(t *testing.T) {
		f := newFixture(1, 100)

		if err := f.market.CancelListing(seller, contract, tokenId); err != repository.ErrListingNotFound {
			t.Errorf("Expected ErrListingNotFound, got %v", err)
		}
	})
}

func TestUpdateListingPrice(t *testing.T) {
	t.Run("replaces the price", func(t *testing.T) {
		f := newFixture(1, 100)
		f.mintAndApprove(seller)

		if err := f.market.ListProperty(seller, contract, tokenId, 100, 1); err != nil {
			t.Fatalf("Expected listing to succeed, got %v", err)
		}
		if err := f.market.UpdateListingPrice(seller, contract, tokenId, 250); err != nil {
			t.Fatalf("Expected update to succeed, got %v", err)
		}

		listing, _ := f.market.GetListing(contract, tokenId)
		if listing.Price != 250 {
			t.Errorf("Expected price 250, got %d", listing.Price)
		}
	})

	t.Run("rejects a zero price", func(t *testing.T) {
		f := newFixture(1, 100)
		f.mintAndApprove(seller)

		if err := f.market.ListProperty(seller, contract, tokenId, 100, 1); err != nil {
			t.Fatalf("Expected listing to succeed, got %v", err)
		}
		if err := f.market.UpdateListingPrice(seller, contract, tokenId, 0); err != ErrPriceZero {
			t.Errorf("Expected ErrPriceZero, got %v", err)
		}
	})

	t.Run("rejects a caller that is not the seller", func(t *testing.T) {
		f := newFixture(1, 100)
		f.mintAndApprove(seller)

		if err := f.market.ListProperty(seller, contract, tokenId, 100, 1); err != nil {
			t.Fatalf("Expected listing to succeed, got %v", err)
		}
		if err := f.market.UpdateListingPrice(buyer, contract, tokenId, 250); err != ErrNotSeller {
			t.Errorf("Expected ErrNotSeller, got %v", err)
		}
	})
}

func TestBuyProperty(t *testing.T) {
	t.Run("transfers the asset and splits the payment", func(t *testing.T) {
		f := newFixture(1, 100)
		f.mintAndApprove(seller)

		if err := f.market.ListProperty(seller, contract, tokenId, 100, 1); err != nil {
			t.Fatalf("Expected listing to succeed, got %v", err)
		}
		if err := f.market.BuyProperty(buyer, contract, tokenId, 100); err != nil {
			t.Fatalf("Expected buy to succeed, got %v", err)
		}

		if holder, _ := f.registry.HolderOf(contract, tokenId); holder != buyer {
			t.Errorf("Expected buyer to hold the asset, got %s", holder)
		}
		if f.bank.BalanceOf(seller) != 99 {
			t.Errorf("Expected seller paid 99, got %d", f.bank.BalanceOf(seller))
		}
		if f.market.AccumulatedFees() != 2 {
			t.Errorf("Expected accumulated fees 2, got %d", f.market.AccumulatedFees())
		}
		if _, err := f.market.GetListing(contract, tokenId); err != repository.ErrListingNotFound {
			t.Errorf("Expected listing absent, got %v", err)
		}
	})

	t.Run("conserves the sale price across the split", func(t *testing.T) {
		for _, price := range []uint64{1, 99, 100, 101, 9999, 10000, 123456789} {
			f := newFixture(0, 250)
			f.mintAndApprove(seller)

			if err := f.market.ListProperty(seller, contract, tokenId, price, 0); err != nil {
				t.Fatalf("Expected listing to succeed, got %v", err)
			}
			if err := f.market.BuyProperty(buyer, contract, tokenId, price); err != nil {
				t.Fatalf("Expected buy to succeed, got %v", err)
			}

			if f.bank.BalanceOf(seller)+f.market.AccumulatedFees() != price {
				t.Errorf("Price %d not conserved: seller %d + fees %d", price, f.bank.BalanceOf(seller), f.market.AccumulatedFees())
			}
		}
	})

	t.Run("rejects the wrong payment", func(t *testing.T) {
		f := newFixture(1, 100)
		f.mintAndApprove(seller)

		if err := f.market.ListProperty(seller, contract, tokenId, 100, 1); err != nil {
			t.Fatalf("Expected listing to succeed, got %v", err)
		}
		if err := f.market.BuyProperty(buyer, contract, tokenId, 99); err != ErrWrongPayment {
			t.Errorf("Expected ErrWrongPayment, got %v", err)
		}
	})

	t.Run("rejects when nothing is listed", func(t *testing.T) {
		f := newFixture(1, 100)

		if err := f.market.BuyProperty(buyer, contract, tokenId, 100); err != repository.ErrListingNotFound {
			t.Errorf("Expected ErrListingNotFound, got %v", err)
		}
	})

	t.Run("succeeds exactly once per listing", func(t *testing.T) {
		f := newFixture(1, 100)
		f.mintAndApprove(seller)

		if err := f.market.ListProperty(seller, contract, tokenId, 100, 1); err != nil {
			t.Fatalf("Expected listing to succeed, got %v", err)
		}
		if err := f.market.BuyProperty(buyer, contract, tokenId, 100); err != nil {
			t.Fatalf("Expected first buy to succeed, got %v", err)
		}
		if err := f.market.BuyProperty(buyer, contract, tokenId, 100); err != repository.ErrListingNotFound {
			t.Errorf("Expected second buy to fail with ErrListingNotFound, got %v", err)
		}
	})

	t.Run("rolls back when the registry rejects the transfer", func(t *testing.T) {
		f := newFixture(1, 100)
		f.mintAndApprove(seller)

		if err := f.market.ListProperty(seller, contract, tokenId, 100, 1); err != nil {
			t.Fatalf("Expected listing to succeed, got %v", err)
		}

		// Approval revoked between listing and buy.
		f.registry.RevokeAll(seller, marketAddress)

		if err := f.market.BuyProperty(buyer, contract, tokenId, 100); err != ErrAssetTransferFailed {
			t.Fatalf("Expected ErrAssetTransferFailed, got %v", err)
		}

		if _, err := f.market.GetListing(contract, tokenId); err != nil {
			t.Errorf("Expected listing restored, got %v", err)
		}
		if f.market.AccumulatedFees() != 1 {
			t.Errorf("Expected fee accrual unwound, got %d", f.market.AccumulatedFees())
		}
		if holder, _ := f.registry.HolderOf(contract, tokenId); holder != seller {
			t.Errorf("Expected seller to keep the asset, got %s", holder)
		}
		if f.bank.BalanceOf(seller) != 0 {
			t.Errorf("Expected no payout, got %d", f.bank.BalanceOf(seller))
		}
	})

	t.Run("rolls back when the payout is rejected", func(t *testing.T) {
		registry := assetregistry.NewMemoryRegistry(marketAddress)
		fees := NewFeeLedger(1, 100)
		listings := repository.NewListingRepository(cache.New(cache.NoExpiration, 0))
		market := NewMarketplace(owner, marketAddress, listings, fees, registry, rejectingBank{})

		// The buyer grants the marketplace nothing; the return of the
		// asset must not depend on the buyer's cooperation.
		registry.Mint(contract, tokenId, seller)
		registry.ApproveAll(seller, marketAddress)

		if err := market.ListProperty(seller, contract, tokenId, 100, 1); err != nil {
			t.Fatalf("Expected listing to succeed, got %v", err)
		}
		if err := market.BuyProperty(buyer, contract, tokenId, 100); err != ErrPayoutFailed {
			t.Fatalf("Expected ErrPayoutFailed, got %v", err)
		}

		if _, err := market.GetListing(contract, tokenId); err != nil {
			t.Errorf("Expected listing restored, got %v", err)
		}
		if market.AccumulatedFees() != 1 {
			t.Errorf("Expected fee accrual unwound, got %d", market.AccumulatedFees())
		}
		if holder, _ := registry.HolderOf(contract, tokenId); holder != seller {
			t.Errorf("Expected asset returned to seller, got %s", holder)
		}
	})

	t.Run("leaves the listing absent when the asset cannot be returned", func(t *testing.T) {
		registry := &oneWayRegistry{MemoryRegistry: assetregistry.NewMemoryRegistry(marketAddress)}
		fees := NewFeeLedger(1, 100)
		listings := repository.NewListingRepository(cache.New(cache.NoExpiration, 0))
		market := NewMarketplace(owner, marketAddress, listings, fees, registry, rejectingBank{})

		registry.Mint(contract, tokenId, seller)
		registry.ApproveAll(seller, marketAddress)

		if err := market.ListProperty(seller, contract, tokenId, 100, 1); err != nil {
			t.Fatalf("Expected listing to succeed, got %v", err)
		}
		if err := market.BuyProperty(buyer, contract, tokenId, 100); err != ErrPayoutFailed {
			t.Fatalf("Expected ErrPayoutFailed, got %v", err)
		}

		// The buyer holds the asset, so a restored listing would name a
		// seller who can no longer deliver it.
		if _, err := market.GetListing(contract, tokenId); err != repository.ErrListingNotFound {
			t.Errorf("Expected listing absent, got %v", err)
		}
		if market.AccumulatedFees() != 1 {
			t.Errorf("Expected fee accrual unwound, got %d", market.AccumulatedFees())
		}
		if holder, _ := registry.HolderOf(contract, tokenId); holder != buyer {
			t.Errorf("Expected buyer left holding the asset, got %s", holder)
		}
	})
}

func TestBuyPropertyReentrancy(t *testing.T) {
	t.Run("payee cannot re-enter buy or cancel during the payout", func(t *testing.T) {
		registry := assetregistry.NewMemoryRegistry(marketAddress)
		fees := NewFeeLedger(1, 100)
		listings := repository.NewListingRepository(cache.New(cache.NoExpiration, 0))

		bank := &reentrantBank{}
		market := NewMarketplace(owner, marketAddress, listings, fees, registry, bank)
		bank.market = market

		registry.Mint(contract, tokenId, seller)
		registry.ApproveAll(seller, marketAddress)

		if err := market.ListProperty(seller, contract, tokenId, 100, 1); err != nil {
			t.Fatalf("Expected listing to succeed, got %v", err)
		}
		if err := market.BuyProperty(buyer, contract, tokenId, 100); err != nil {
			t.Fatalf("Expected outer buy to succeed, got %v", err)
		}

		if bank.buyErr != ErrReentrantCall {
			t.Errorf("Expected reentrant buy rejected, got %v", bank.buyErr)
		}
		if bank.cancelErr != ErrReentrantCall {
			t.Errorf("Expected reentrant cancel rejected, got %v", bank.cancelErr)
		}
		if holder, _ := registry.HolderOf(contract, tokenId); holder != buyer {
			t.Errorf("Expected buyer to hold the asset, got %s", holder)
		}
		if market.AccumulatedFees() != 2 {
			t.Errorf("Expected accumulated fees 2, got %d", market.AccumulatedFees())
		}
	})
}

func TestSetListingFee(t *testing.T) {
	t.Run("owner changes the fee", func(t *testing.T) {
		f := newFixture(1, 100)
		f.mintAndApprove(seller)

		if err := f.market.SetListingFee(owner, 5); err != nil {
			t.Fatalf("Expected fee change to succeed, got %v", err)
		}
		if f.market.ListingFee() != 5 {
			t.Errorf("Expected listing fee 5, got %d", f.market.ListingFee())
		}
		if err := f.market.ListProperty(seller, contract, tokenId, 100, 1); err != ErrWrongListingFee {
			t.Errorf("Expected old fee rejected, got %v", err)
		}
		if err := f.market.ListProperty(seller, contract, tokenId, 100, 5); err != nil {
			t.Errorf("Expected new fee accepted, got %v", err)
		}
	})

	t.Run("non-owner is rejected", func(t *testing.T) {
		f := newFixture(1, 100)

		if err := f.market.SetListingFee(seller, 5); err != ErrNotOwner {
			t.Errorf("Expected ErrNotOwner, got %v", err)
		}
	})
}

func TestWithdrawAccumulatedFees(t *testing.T) {
	t.Run("transfers the full balance and zeroes it", func(t *testing.T) {
		f := newFixture(1, 100)
		f.mintAndApprove(seller)

		if err := f.market.ListProperty(seller, contract, tokenId, 100, 1); err != nil {
			t.Fatalf("Expected listing to succeed, got %v", err)
		}
		if err := f.market.BuyProperty(buyer, contract, tokenId, 100); err != nil {
			t.Fatalf("Expected buy to succeed, got %v", err)
		}

		if err := f.market.WithdrawAccumulatedFees(owner, "0xtreasury"); err != nil {
			t.Fatalf("Expected withdrawal to succeed, got %v", err)
		}
		if f.bank.BalanceOf("0xtreasury") != 2 {
			t.Errorf("Expected treasury credited 2, got %d", f.bank.BalanceOf("0xtreasury"))
		}
		if f.market.AccumulatedFees() != 0 {
			t.Errorf("Expected accumulated fees zeroed, got %d", f.market.AccumulatedFees())
		}
	})

	t.Run("rejects a zero balance", func(t *testing.T) {
		f := newFixture(1, 100)

		if err := f.market.WithdrawAccumulatedFees(owner, "0xtreasury"); err != ErrNothingToWithdraw {
			t.Errorf("Expected ErrNothingToWithdraw, got %v", err)
		}
	})

	t.Run("rejects a non-owner", func(t *testing.T) {
		f := newFixture(1, 100)

		if err := f.market.WithdrawAccumulatedFees(seller, seller); err != ErrNotOwner {
			t.Errorf("Expected ErrNotOwner, got %v", err)
		}
	})

	t.Run("re-credits the balance when the payout is rejected", func(t *testing.T) {
		registry := assetregistry.NewMemoryRegistry(marketAddress)
		fees := NewFeeLedger(1, 100)
		listings := repository.NewListingRepository(cache.New(cache.NoExpiration, 0))
		market := NewMarketplace(owner, marketAddress, listings, fees, registry, rejectingBank{})

		fees.Accrue(7)

		if err := market.WithdrawAccumulatedFees(owner, "0xtreasury"); err != ErrPayoutFailed {
			t.Fatalf("Expected ErrPayoutFailed, got %v", err)
		}
		if market.AccumulatedFees() != 7 {
			t.Errorf("Expected balance re-credited, got %d", market.AccumulatedFees())
		}
	})
}

// oneWayRegistry performs the first transfer and refuses every one after,
// modelling a registry that cannot move an asset back once it changed hands.
type oneWayRegistry struct {
	assetregistry.MemoryRegistry
	transfers int
}

func (r *oneWayRegistry) Transfer(contract string, tokenId uint64, from, to string) error {
	r.transfers++
	if r.transfers > 1 {
		return assetregistry.ErrNotAuthorized
	}

	return r.MemoryRegistry.Transfer(contract, tokenId, from, to)
}

type rejectingBank struct{}

func (b rejectingBank) Send(destination string, amount uint64) error {
	return errors.New("destination rejected the value")
}

type reentrantBank struct {
	market    Marketplace
	buyErr    error
	cancelErr error
}

func (b *reentrantBank) Send(destination string, amount uint64) error {
	b.buyErr = b.market.BuyProperty(buyer, contract, tokenId, 100)
	b.cancelErr = b.market.CancelListing(seller, contract, tokenId)

	return nil
}
