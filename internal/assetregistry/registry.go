package assetregistry

import "errors"

var (
	ErrAssetNotFound = errors.New("asset not found")
	ErrWrongHolder   = errors.New("asset is not held by the expected account")
	ErrNotAuthorized = errors.New("operator is not authorized for this asset")
)

// Registry is the external system that owns the canonical holder and
// authorization state for every asset. The marketplace never stores asset
// state itself; it only queries and instructs this collaborator.
type Registry interface {
	HolderOf(contract string, tokenId uint64) (string, error)
	IsApproved(holder, operator, contract string, tokenId uint64) (bool, error)
	Transfer(contract string, tokenId uint64, from, to string) error
}
