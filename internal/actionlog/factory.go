package actionlog

import (
	"github.com/DeedLedger/property-marketplace/internal/entity"
	"github.com/DeedLedger/property-marketplace/internal/event"
	"github.com/nu7hatch/gouuid"
	"time"
)

func CreateListingCreatedAction(msg event.ListingCreated) entity.MarketplaceAction {
	return entity.MarketplaceAction{
		ActionId:      actionId(),
		Action:        entity.ListingCreatedAction,
		AssetContract: msg.AssetContract,
		TokenId:       msg.TokenId,
		Seller:        msg.Seller,
		Price:         msg.Price,
		ListingFee:    msg.ListingFee,
		OccurredAt:    time.Now(),
	}
}

func CreateListingCanceledAction(msg event.ListingCanceled) entity.MarketplaceAction {
	return entity.MarketplaceAction{
		ActionId:      actionId(),
		Action:        entity.ListingCanceledAction,
		AssetContract: msg.AssetContract,
		TokenId:       msg.TokenId,
		Seller:        msg.Seller,
		OccurredAt:    time.Now(),
	}
}

func CreateListingUpdatedAction(msg event.ListingPriceUpdated) entity.MarketplaceAction {
	return entity.MarketplaceAction{
		ActionId:      actionId(),
		Action:        entity.ListingUpdatedAction,
		AssetContract: msg.AssetContract,
		TokenId:       msg.TokenId,
		Seller:        msg.Seller,
		Price:         msg.Price,
		OccurredAt:    time.Now(),
	}
}

func CreateSaleCompletedAction(msg event.SaleCompleted) entity.MarketplaceAction {
	return entity.MarketplaceAction{
		ActionId:      actionId(),
		Action:        entity.SaleCompletedAction,
		AssetContract: msg.AssetContract,
		TokenId:       msg.TokenId,
		Seller:        msg.Seller,
		Buyer:         msg.Buyer,
		Price:         msg.Price,
		ProtocolFee:   msg.ProtocolFee,
		OccurredAt:    time.Now(),
	}
}

func CreateListingFeeChangedAction(msg event.ListingFeeChanged) entity.MarketplaceAction {
	return entity.MarketplaceAction{
		ActionId:   actionId(),
		Action:     entity.ListingFeeChangedAction,
		ListingFee: msg.ListingFee,
		OccurredAt: time.Now(),
	}
}

func actionId() string {
	u, _ := uuid.NewV4()
	return u.String()
}
