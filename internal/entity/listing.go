package entity

import (
	"crypto/md5"
	"fmt"
)

// Listing is an open offer to sell one property at a fixed price. A listing
// with a zero price is never stored; zero is the storage-level absence value.
type Listing struct {
	Seller        string `json:"seller"`
	AssetContract string `json:"assetContract"`
	TokenId       uint64 `json:"tokenId"`
	Price         uint64 `json:"price"`
}

func (l Listing) Slug() string {
	return CreateListingSlug(l.AssetContract, l.TokenId)
}

func (l Listing) Absent() bool {
	return l.Price == 0
}

func CreateListingSlug(contract string, tokenId uint64) string {
	data := []byte(fmt.Sprintf("listing-%s-%d", contract, tokenId))
	return fmt.Sprintf("%x", md5.Sum(data))
}
