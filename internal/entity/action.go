package entity

import (
	"crypto/md5"
	"fmt"
	"time"
)

type MarketplaceAction struct {
	ActionId      string     `json:"actionId"`
	Action        ActionType `json:"action"`
	AssetContract string     `json:"assetContract"`
	TokenId       uint64     `json:"tokenId"`
	Seller        string     `json:"seller"`
	Buyer         string     `json:"buyer"`
	Price         uint64     `json:"price"`
	ProtocolFee   uint64     `json:"protocolFee"`
	ListingFee    uint64     `json:"listingFee"`
	OccurredAt    time.Time  `json:"occurredAt"`
}

type ActionType string

const (
	ListingCreatedAction    ActionType = "listing"
	ListingCanceledAction   ActionType = "delisting"
	ListingUpdatedAction    ActionType = "update"
	SaleCompletedAction     ActionType = "sale"
	ListingFeeChangedAction ActionType = "feeChange"
)

func (a MarketplaceAction) Slug() string {
	return CreateMarketplaceActionSlug(a.ActionId, a.AssetContract, a.TokenId, string(a.Action))
}

func CreateMarketplaceActionSlug(actionId, contract string, tokenId uint64, action string) string {
	data := []byte(fmt.Sprintf("mpaction-%s-%s-%d-%s", actionId, contract, tokenId, action))
	return fmt.Sprintf("%x", md5.Sum(data))
}
