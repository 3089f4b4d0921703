package actionlog

import (
	"github.com/DeedLedger/property-marketplace/internal/elastic_search"
	"github.com/DeedLedger/property-marketplace/internal/event"
	"go.uber.org/zap"
)

// Indexer turns marketplace events into append-only action documents. It is
// an observer; the ledger never reads this index back.
type Indexer interface {
	TriggerListingCreated(msg interface{})
	TriggerListingCanceled(msg interface{})
	TriggerListingPriceUpdated(msg interface{})
	TriggerSaleCompleted(msg interface{})
	TriggerListingFeeChanged(msg interface{})
}

type indexer struct {
	elastic elastic_search.Index
}

func NewIndexer(elastic elastic_search.Index) Indexer {
	return indexer{elastic}
}

func (i indexer) TriggerListingCreated(msg interface{}) {
	listing, ok := msg.(event.ListingCreated)
	if !ok {
		zap.L().Warn("ActionLog: Invalid listing created payload")
		return
	}

	zap.L().With(
		zap.String("contract", listing.AssetContract),
		zap.Uint64("tokenId", listing.TokenId),
	).Debug("ActionLog: Index listing created")

	i.elastic.AddIndexRequest(elastic_search.MarketplaceActionIndex.Get(), CreateListingCreatedAction(listing))
	i.elastic.BatchPersist()
}

func (i indexer) TriggerListingCanceled(msg interface{}) {
	delisting, ok := msg.(event.ListingCanceled)
	if !ok {
		zap.L().Warn("ActionLog: Invalid listing canceled payload")
		return
	}

	zap.L().With(
		zap.String("contract", delisting.AssetContract),
		zap.Uint64("tokenId", delisting.TokenId),
	).Debug("ActionLog: Index listing canceled")

	i.elastic.AddIndexRequest(elastic_search.MarketplaceActionIndex.Get(), CreateListingCanceledAction(delisting))
	i.elastic.BatchPersist()
}

func (i indexer) TriggerListingPriceUpdated(msg interface{}) {
	update, ok := msg.(event.ListingPriceUpdated)
	if !ok {
		zap.L().Warn("ActionLog: Invalid listing update payload")
		return
	}

	zap.L().With(
		zap.String("contract", update.AssetContract),
		zap.Uint64("tokenId", update.TokenId),
	).Debug("ActionLog: Index listing update")

	i.elastic.AddIndexRequest(elastic_search.MarketplaceActionIndex.Get(), CreateListingUpdatedAction(update))
	i.elastic.BatchPersist()
}

func (i indexer) TriggerSaleCompleted(msg interface{}) {
	sale, ok := msg.(event.SaleCompleted)
	if !ok {
		zap.L().Warn("ActionLog: Invalid sale payload")
		return
	}

	zap.L().With(
		zap.String("contract", sale.AssetContract),
		zap.Uint64("tokenId", sale.TokenId),
		zap.String("buyer", sale.Buyer),
		zap.String("seller", sale.Seller),
	).Debug("ActionLog: Index sale")

	i.elastic.AddIndexRequest(elastic_search.MarketplaceActionIndex.Get(), CreateSaleCompletedAction(sale))
	i.elastic.BatchPersist()
}

func (i indexer) TriggerListingFeeChanged(msg interface{}) {
	change, ok := msg.(event.ListingFeeChanged)
	if !ok {
		zap.L().Warn("ActionLog: Invalid fee change payload")
		return
	}

	i.elastic.AddIndexRequest(elastic_search.MarketplaceActionIndex.Get(), CreateListingFeeChangedAction(change))
	i.elastic.BatchPersist()
}
