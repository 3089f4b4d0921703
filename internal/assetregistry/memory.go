package assetregistry

import (
	"fmt"
	"github.com/patrickmn/go-cache"
)

// MemoryRegistry is an in-process registry used for tests and local runs.
// The operator given at construction is the account the registry checks
// authorization against when a transfer is instructed. A transfer the
// operator performed can be reversed without the new holder's approval
// until the asset moves again; the marketplace relies on that to return an
// asset when a sale aborts after the transfer.
type MemoryRegistry interface {
	Registry

	Mint(contract string, tokenId uint64, holder string)
	Approve(holder, operator, contract string, tokenId uint64)
	ApproveAll(holder, operator string)
	RevokeAll(holder, operator string)
}

type memoryRegistry struct {
	operator  string
	holders   *cache.Cache
	approvals *cache.Cache
	returns   *cache.Cache
}

func NewMemoryRegistry(operator string) MemoryRegistry {
	return memoryRegistry{
		operator:  operator,
		holders:   cache.New(cache.NoExpiration, 0),
		approvals: cache.New(cache.NoExpiration, 0),
		returns:   cache.New(cache.NoExpiration, 0),
	}
}

func (r memoryRegistry) Mint(contract string, tokenId uint64, holder string) {
	r.holders.Set(assetKey(contract, tokenId), holder, cache.NoExpiration)
}

func (r memoryRegistry) Approve(holder, operator, contract string, tokenId uint64) {
	r.approvals.Set(assetApprovalKey(holder, operator, contract, tokenId), true, cache.NoExpiration)
}

func (r memoryRegistry) ApproveAll(holder, operator string) {
	r.approvals.Set(blanketApprovalKey(holder, operator), true, cache.NoExpiration)
}

func (r memoryRegistry) RevokeAll(holder, operator string) {
	r.approvals.Delete(blanketApprovalKey(holder, operator))
}

func (r memoryRegistry) HolderOf(contract string, tokenId uint64) (string, error) {
	holder, found := r.holders.Get(assetKey(contract, tokenId))
	if !found {
		return "", ErrAssetNotFound
	}

	return holder.(string), nil
}

func (r memoryRegistry) IsApproved(holder, operator, contract string, tokenId uint64) (bool, error) {
	if _, found := r.approvals.Get(blanketApprovalKey(holder, operator)); found {
		return true, nil
	}
	_, found := r.approvals.Get(assetApprovalKey(holder, operator, contract, tokenId))

	return found, nil
}

func (r memoryRegistry) Transfer(contract string, tokenId uint64, from, to string) error {
	holder, err := r.HolderOf(contract, tokenId)
	if err != nil {
		return err
	}
	if holder != from {
		return ErrWrongHolder
	}

	key := assetKey(contract, tokenId)

	// Sending the asset back to the holder the operator last took it from
	// reverses that transfer and needs no approval from the current holder.
	if prior, found := r.returns.Get(key); found && prior.(string) == to {
		r.returns.Delete(key)
		r.holders.Set(key, to, cache.NoExpiration)

		return nil
	}

	approved, _ := r.IsApproved(from, r.operator, contract, tokenId)
	if !approved {
		return ErrNotAuthorized
	}

	r.returns.Set(key, from, cache.NoExpiration)
	r.holders.Set(key, to, cache.NoExpiration)
	r.approvals.Delete(assetApprovalKey(from, r.operator, contract, tokenId))

	return nil
}

func assetKey(contract string, tokenId uint64) string {
	return fmt.Sprintf("%s:%d", contract, tokenId)
}

func assetApprovalKey(holder, operator, contract string, tokenId uint64) string {
	return fmt.Sprintf("%s:%s:%s:%d", holder, operator, contract, tokenId)
}

func blanketApprovalKey(holder, operator string) string {
	return fmt.Sprintf("%s:%s:*", holder, operator)
}
