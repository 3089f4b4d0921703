package event

type Type string

const (
	ListingCreatedEvent      Type = "ListingCreatedEvent"
	ListingCanceledEvent     Type = "ListingCanceledEvent"
	ListingPriceUpdatedEvent Type = "ListingPriceUpdatedEvent"
	SaleCompletedEvent       Type = "SaleCompletedEvent"
	ListingFeeChangedEvent   Type = "ListingFeeChangedEvent"
)

type ListingCreated struct {
	Seller        string `json:"seller"`
	AssetContract string `json:"assetContract"`
	TokenId       uint64 `json:"tokenId"`
	Price         uint64 `json:"price"`
	ListingFee    uint64 `json:"listingFee"`
}

type ListingCanceled struct {
	Seller        string `json:"seller"`
	AssetContract string `json:"assetContract"`
	TokenId       uint64 `json:"tokenId"`
}

type ListingPriceUpdated struct {
	Seller        string `json:"seller"`
	AssetContract string `json:"assetContract"`
	TokenId       uint64 `json:"tokenId"`
	Price         uint64 `json:"price"`
}

type SaleCompleted struct {
	Seller        string `json:"seller"`
	Buyer         string `json:"buyer"`
	AssetContract string `json:"assetContract"`
	TokenId       uint64 `json:"tokenId"`
	Price         uint64 `json:"price"`
	ProtocolFee   uint64 `json:"protocolFee"`
}

type ListingFeeChanged struct {
	ListingFee uint64 `json:"listingFee"`
}
