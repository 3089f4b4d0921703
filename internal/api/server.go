package api

import (
	"encoding/json"
	"errors"
	"github.com/DeedLedger/property-marketplace/internal/dev"
	"github.com/DeedLedger/property-marketplace/internal/marketplace"
	"github.com/DeedLedger/property-marketplace/internal/repository"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"net/http"
	"strconv"
)

// Server is the HTTP boundary. It only parses arguments and maps errors to
// status codes; every rule lives in the marketplace.
type Server struct {
	market marketplace.Marketplace
}

func NewServer(market marketplace.Marketplace) Server {
	return Server{market}
}

func (s Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/", s.handleHomepage).Methods("GET")
	r.HandleFunc("/listings", s.handleListProperty).Methods("POST")
	r.HandleFunc("/listings/{contract}/{tokenId}", s.handleGetListing).Methods("GET")
	r.HandleFunc("/listings/{contract}/{tokenId}", s.handleCancelListing).Methods("DELETE")
	r.HandleFunc("/listings/{contract}/{tokenId}/price", s.handleUpdatePrice).Methods("PUT")
	r.HandleFunc("/listings/{contract}/{tokenId}/buy", s.handleBuyProperty).Methods("POST")
	r.HandleFunc("/fees", s.handleGetFees).Methods("GET")
	r.HandleFunc("/fees/listing", s.handleSetListingFee).Methods("PUT")
	r.HandleFunc("/fees/withdraw", s.handleWithdraw).Methods("POST")
	r.NotFoundHandler = notFoundHandler()

	return r
}

func (s Server) handleHomepage(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte("Property Marketplace"))
}

func (s Server) handleGetListing(w http.ResponseWriter, r *http.Request) {
	contract := mux.Vars(r)["contract"]
	tokenId, err := getTokenId(r)
	if err != nil {
		s.respondError(w, "getListing", err, nil)
		return
	}

	listing, err := s.market.GetListing(contract, tokenId)
	if err != nil {
		s.respondError(w, "getListing", err, map[string]interface{}{"contract": contract, "tokenId": tokenId})
		return
	}

	respondJson(w, http.StatusOK, listing)
}

func (s Server) handleListProperty(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Caller        string `json:"caller"`
		AssetContract string `json:"assetContract"`
		TokenId       uint64 `json:"tokenId"`
		Price         uint64 `json:"price"`
		Paid          uint64 `json:"paid"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.respondError(w, "listProperty", err, nil)
		return
	}

	if err := s.market.ListProperty(body.Caller, body.AssetContract, body.TokenId, body.Price, body.Paid); err != nil {
		s.respondError(w, "listProperty", err, map[string]interface{}{"contract": body.AssetContract, "tokenId": body.TokenId})
		return
	}

	w.WriteHeader(http.StatusCreated)
}

func (s Server) handleCancelListing(w http.ResponseWriter, r *http.Request) {
	contract := mux.Vars(r)["contract"]
	tokenId, err := getTokenId(r)
	if err != nil {
		s.respondError(w, "cancelListing", err, nil)
		return
	}

	var body struct {
		Caller string `json:"caller"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.respondError(w, "cancelListing", err, nil)
		return
	}

	if err := s.market.CancelListing(body.Caller, contract, tokenId); err != nil {
		s.respondError(w, "cancelListing", err, map[string]interface{}{"contract": contract, "tokenId": tokenId})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s Server) handleUpdatePrice(w http.ResponseWriter, r *http.Request) {
	contract := mux.Vars(r)["contract"]
	tokenId, err := getTokenId(r)
	if err != nil {
		s.respondError(w, "updateListingPrice", err, nil)
		return
	}

	var body struct {
		Caller string `json:"caller"`
		Price  uint64 `json:"price"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.respondError(w, "updateListingPrice", err, nil)
		return
	}

	if err := s.market.UpdateListingPrice(body.Caller, contract, tokenId, body.Price); err != nil {
		s.respondError(w, "updateListingPrice", err, map[string]interface{}{"contract": contract, "tokenId": tokenId})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s Server) handleBuyProperty(w http.ResponseWriter, r *http.Request) {
	contract := mux.Vars(r)["contract"]
	tokenId, err := getTokenId(r)
	if err != nil {
		s.respondError(w, "buyProperty", err, nil)
		return
	}

	var body struct {
		Caller string `json:"caller"`
		Paid   uint64 `json:"paid"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.respondError(w, "buyProperty", err, nil)
		return
	}

	if err := s.market.BuyProperty(body.Caller, contract, tokenId, body.Paid); err != nil {
		s.respondError(w, "buyProperty", err, map[string]interface{}{"contract": contract, "tokenId": tokenId})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s Server) handleGetFees(w http.ResponseWriter, r *http.Request) {
	respondJson(w, http.StatusOK, map[string]uint64{
		"listingFee":      s.market.ListingFee(),
		"accumulatedFees": s.market.AccumulatedFees(),
	})
}

func (s Server) handleSetListingFee(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Caller string `json:"caller"`
		Fee    uint64 `json:"fee"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.respondError(w, "setListingFee", err, nil)
		return
	}

	if err := s.market.SetListingFee(body.Caller, body.Fee); err != nil {
		s.respondError(w, "setListingFee", err, nil)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s Server) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Caller      string `json:"caller"`
		Destination string `json:"destination"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.respondError(w, "withdrawAccumulatedFees", err, nil)
		return
	}

	if err := s.market.WithdrawAccumulatedFees(body.Caller, body.Destination); err != nil {
		s.respondError(w, "withdrawAccumulatedFees", err, nil)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s Server) respondError(w http.ResponseWriter, name string, err error, extra map[string]interface{}) {
	report := dev.NewReport("api", name, err, extra)
	zap.L().With(zap.Error(err), zap.String("slug", report.Slug)).Warn("Api: " + name + " failed")

	respondJson(w, statusFor(err), report)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, repository.ErrListingNotFound):
		return http.StatusNotFound
	case errors.Is(err, marketplace.ErrNotOwner),
		errors.Is(err, marketplace.ErrNotSeller),
		errors.Is(err, marketplace.ErrNotAssetHolder),
		errors.Is(err, marketplace.ErrMarketplaceNotApproved):
		return http.StatusForbidden
	case errors.Is(err, marketplace.ErrAlreadyListed),
		errors.Is(err, marketplace.ErrReentrantCall),
		errors.Is(err, marketplace.ErrNothingToWithdraw):
		return http.StatusConflict
	case errors.Is(err, marketplace.ErrAssetTransferFailed),
		errors.Is(err, marketplace.ErrPayoutFailed):
		return http.StatusBadGateway
	default:
		return http.StatusBadRequest
	}
}

func respondJson(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func getTokenId(r *http.Request) (uint64, error) {
	return strconv.ParseUint(mux.Vars(r)["tokenId"], 10, 64)
}

func notFoundHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Resource not found", http.StatusNotFound)
	})
}
