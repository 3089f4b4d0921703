package marketplace

import (
	"github.com/DeedLedger/property-marketplace/internal/assetregistry"
	"github.com/DeedLedger/property-marketplace/internal/entity"
	"github.com/DeedLedger/property-marketplace/internal/event"
	"github.com/DeedLedger/property-marketplace/internal/funds"
	"github.com/DeedLedger/property-marketplace/internal/repository"
	"go.uber.org/zap"
)

// Marketplace is the sale protocol. Every state-mutating operation runs under
// the reentrancy guard and applies its effects before any external call, so a
// callee that re-enters observes the listing already gone and fails.
type Marketplace interface {
	ListProperty(caller, contract string, tokenId, price, paid uint64) error
	CancelListing(caller, contract string, tokenId uint64) error
	UpdateListingPrice(caller, contract string, tokenId, newPrice uint64) error
	BuyProperty(caller, contract string, tokenId, paid uint64) error

	SetListingFee(caller string, fee uint64) error
	WithdrawAccumulatedFees(caller, destination string) error

	GetListing(contract string, tokenId uint64) (entity.Listing, error)
	ListingFee() uint64
	AccumulatedFees() uint64
}

type marketplace struct {
	owner    string
	address  string
	listings repository.ListingRepository
	fees     FeeLedger
	registry assetregistry.Registry
	bank     funds.Transferer
	guard    guard
}

func NewMarketplace(
	owner string,
	address string,
	listings repository.ListingRepository,
	fees FeeLedger,
	registry assetregistry.Registry,
	bank funds.Transferer,
) Marketplace {
	return &marketplace{
		owner:    owner,
		address:  address,
		listings: listings,
		fees:     fees,
		registry: registry,
		bank:     bank,
	}
}

func (m *marketplace) ListProperty(caller, contract string, tokenId, price, paid uint64) error {
	if err := m.guard.enter(); err != nil {
		return err
	}
	defer m.guard.exit()

	if price == 0 {
		return ErrPriceZero
	}
	if paid != m.fees.ListingFee() {
		return ErrWrongListingFee
	}

	holder, err := m.registry.HolderOf(contract, tokenId)
	if err != nil {
		return err
	}
	if holder != caller {
		return ErrNotAssetHolder
	}

	approved, err := m.registry.IsApproved(caller, m.address, contract, tokenId)
	if err != nil {
		return err
	}
	if !approved {
		return ErrMarketplaceNotApproved
	}

	if _, err := m.listings.Get(contract, tokenId); err == nil {
		return ErrAlreadyListed
	}

	m.fees.Accrue(paid)
	m.listings.Put(entity.Listing{
		Seller:        caller,
		AssetContract: contract,
		TokenId:       tokenId,
		Price:         price,
	})

	zap.L().With(
		zap.String("seller", caller),
		zap.String("contract", contract),
		zap.Uint64("tokenId", tokenId),
		zap.Uint64("price", price),
	).Info("Marketplace: listing created")

	event.EmitEvent(event.ListingCreatedEvent, event.ListingCreated{
		Seller:        caller,
		AssetContract: contract,
		TokenId:       tokenId,
		Price:         price,
		ListingFee:    paid,
	})

	return nil
}

func (m *marketplace) CancelListing(caller, contract string, tokenId uint64) error {
	if err := m.guard.enter(); err != nil {
		return err
	}
	defer m.guard.exit()

	listing, err := m.listings.Get(contract, tokenId)
	if err != nil {
		return err
	}
	if listing.Seller != caller {
		return ErrNotSeller
	}

	m.listings.Remove(contract, tokenId)

	zap.L().With(
		zap.String("seller", caller),
		zap.String("contract", contract),
		zap.Uint64("tokenId", tokenId),
	).Info("Marketplace: listing canceled")

	event.EmitEvent(event.ListingCanceledEvent, event.ListingCanceled{
		Seller:        caller,
		AssetContract: contract,
		TokenId:       tokenId,
	})

	return nil
}

func (m *marketplace) UpdateListingPrice(caller, contract string, tokenId, newPrice uint64) error {
	if err := m.guard.enter(); err != nil {
		return err
	}
	defer m.guard.exit()

	if newPrice == 0 {
		return ErrPriceZero
	}

	listing, err := m.listings.Get(contract, tokenId)
	if err != nil {
		return err
	}
	if listing.Seller != caller {
		return ErrNotSeller
	}

	listing.Price = newPrice
	m.listings.Put(listing)

	zap.L().With(
		zap.String("seller", caller),
		zap.String("contract", contract),
		zap.Uint64("tokenId", tokenId),
		zap.Uint64("price", newPrice),
	).Info("Marketplace: listing price updated")

	event.EmitEvent(event.ListingPriceUpdatedEvent, event.ListingPriceUpdated{
		Seller:        caller,
		AssetContract: contract,
		TokenId:       tokenId,
		Price:         newPrice,
	})

	return nil
}

func (m *marketplace) BuyProperty(caller, contract string, tokenId, paid uint64) error {
	if err := m.guard.enter(); err != nil {
		return err
	}
	defer m.guard.exit()

	listing, err := m.listings.Get(contract, tokenId)
	if err != nil {
		return err
	}
	if paid != listing.Price {
		return ErrWrongPayment
	}

	// Effects before interactions. The listing must be gone and the fee
	// accrued before any external call leaves this process.
	m.listings.Remove(contract, tokenId)
	protocolCut, sellerCut := m.fees.Split(paid)
	m.fees.Accrue(protocolCut)

	if err := m.registry.Transfer(contract, tokenId, listing.Seller, caller); err != nil {
		m.rollbackSale(listing, protocolCut)
		zap.L().With(
			zap.Error(err),
			zap.String("contract", contract),
			zap.Uint64("tokenId", tokenId),
		).Warn("Marketplace: asset transfer rejected")

		return ErrAssetTransferFailed
	}

	if err := m.bank.Send(listing.Seller, sellerCut); err != nil {
		zap.L().With(
			zap.Error(err),
			zap.String("seller", listing.Seller),
			zap.Uint64("amount", sellerCut),
		).Warn("Marketplace: seller payout rejected")

		if returnErr := m.registry.Transfer(contract, tokenId, caller, listing.Seller); returnErr != nil {
			// The buyer still holds the asset, so restoring the listing
			// would advertise a seller who cannot deliver it. Only the
			// fee accrual is unwound.
			m.fees.Deduct(protocolCut)
			zap.L().With(
				zap.Error(returnErr),
				zap.String("contract", contract),
				zap.Uint64("tokenId", tokenId),
			).Error("Marketplace: failed to return asset after payout failure")

			return ErrPayoutFailed
		}

		m.rollbackSale(listing, protocolCut)

		return ErrPayoutFailed
	}

	zap.L().With(
		zap.String("seller", listing.Seller),
		zap.String("buyer", caller),
		zap.String("contract", contract),
		zap.Uint64("tokenId", tokenId),
		zap.Uint64("price", paid),
		zap.Uint64("protocolFee", protocolCut),
	).Info("Marketplace: sale completed")

	event.EmitEvent(event.SaleCompletedEvent, event.SaleCompleted{
		Seller:        listing.Seller,
		Buyer:         caller,
		AssetContract: contract,
		TokenId:       tokenId,
		Price:         paid,
		ProtocolFee:   protocolCut,
	})

	return nil
}

func (m *marketplace) SetListingFee(caller string, fee uint64) error {
	if err := m.guard.enter(); err != nil {
		return err
	}
	defer m.guard.exit()

	if caller != m.owner {
		return ErrNotOwner
	}

	m.fees.SetListingFee(fee)

	zap.L().With(zap.Uint64("listingFee", fee)).Info("Marketplace: listing fee changed")

	event.EmitEvent(event.ListingFeeChangedEvent, event.ListingFeeChanged{ListingFee: fee})

	return nil
}

func (m *marketplace) WithdrawAccumulatedFees(caller, destination string) error {
	if err := m.guard.enter(); err != nil {
		return err
	}
	defer m.guard.exit()

	if caller != m.owner {
		return ErrNotOwner
	}
	if m.fees.Accumulated() == 0 {
		return ErrNothingToWithdraw
	}

	amount := m.fees.Drain()
	if err := m.bank.Send(destination, amount); err != nil {
		m.fees.Accrue(amount)
		zap.L().With(
			zap.Error(err),
			zap.String("destination", destination),
			zap.Uint64("amount", amount),
		).Warn("Marketplace: fee withdrawal rejected")

		return ErrPayoutFailed
	}

	zap.L().With(
		zap.String("destination", destination),
		zap.Uint64("amount", amount),
	).Info("Marketplace: fees withdrawn")

	return nil
}

func (m *marketplace) GetListing(contract string, tokenId uint64) (entity.Listing, error) {
	return m.listings.Get(contract, tokenId)
}

func (m *marketplace) ListingFee() uint64 {
	return m.fees.ListingFee()
}

func (m *marketplace) AccumulatedFees() uint64 {
	return m.fees.Accumulated()
}

// rollbackSale unwinds the effects applied before the external calls. The
// guard is still held, so nothing can observe the intermediate state.
func (m *marketplace) rollbackSale(listing entity.Listing, protocolCut uint64) {
	m.fees.Deduct(protocolCut)
	m.listings.Put(listing)
}
