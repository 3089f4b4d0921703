package marketplace

import "errors"

var (
	ErrPriceZero              = errors.New("price must be greater than zero")
	ErrWrongPayment           = errors.New("payment does not match listing price")
	ErrWrongListingFee        = errors.New("payment does not match listing fee")
	ErrNotAssetHolder         = errors.New("caller does not hold the asset")
	ErrMarketplaceNotApproved = errors.New("marketplace is not approved to transfer the asset")
	ErrNotSeller              = errors.New("caller is not the listing seller")
	ErrNotOwner               = errors.New("caller is not the marketplace owner")
	ErrAlreadyListed          = errors.New("listing already exists for this asset")
	ErrAssetTransferFailed    = errors.New("asset registry rejected the transfer")
	ErrPayoutFailed           = errors.New("payout rejected by destination")
	ErrReentrantCall          = errors.New("reentrant call rejected")
	ErrNothingToWithdraw      = errors.New("no accumulated fees to withdraw")
)
