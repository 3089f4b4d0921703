package messenger

import (
	"encoding/json"
	"go.uber.org/zap"
)

// Publisher forwards marketplace events to the queue for off-chain
// consumers. Delivery is best effort; the ledger never waits on it.
type Publisher interface {
	TriggerListingCreated(msg interface{})
	TriggerListingCanceled(msg interface{})
	TriggerListingPriceUpdated(msg interface{})
	TriggerSaleCompleted(msg interface{})
}

type publisher struct {
	messenger MessageService
}

func NewPublisher(messenger MessageService) Publisher {
	return publisher{messenger}
}

func (p publisher) TriggerListingCreated(msg interface{}) {
	p.publish(ListingCreated, msg)
}

func (p publisher) TriggerListingCanceled(msg interface{}) {
	p.publish(ListingCanceled, msg)
}

func (p publisher) TriggerListingPriceUpdated(msg interface{}) {
	p.publish(ListingUpdated, msg)
}

func (p publisher) TriggerSaleCompleted(msg interface{}) {
	p.publish(SaleCompleted, msg)
}

func (p publisher) publish(item Item, msg interface{}) {
	body, err := json.Marshal(msg)
	if err != nil {
		zap.L().With(zap.Error(err)).Error("[Queue] Failed to marshal event")
		return
	}

	if err := p.messenger.SendMessage(item, body, false); err != nil {
		zap.L().With(zap.Error(err), zap.String("item", string(item))).Warn("[Queue] Failed to publish event")
	}
}
