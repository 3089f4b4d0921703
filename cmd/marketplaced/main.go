package main

import (
	"fmt"
	"github.com/DeedLedger/property-marketplace/internal/config"
	"github.com/DeedLedger/property-marketplace/internal/config/di"
	"github.com/DeedLedger/property-marketplace/internal/event"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"net/http"
)

var container *di.Container

func main() {
	config.Init("marketplaced")

	var err error
	if container, err = di.NewContainer(); err != nil {
		zap.L().With(zap.Error(err)).Fatal("Failed to build container")
	}

	go health()

	if config.Get().ElasticSearch.Enabled {
		container.GetElastic().InstallMappings()

		actionIndexer := container.GetActionIndexer()
		event.AddEventListener(event.ListingCreatedEvent, actionIndexer.TriggerListingCreated)
		event.AddEventListener(event.ListingCanceledEvent, actionIndexer.TriggerListingCanceled)
		event.AddEventListener(event.ListingPriceUpdatedEvent, actionIndexer.TriggerListingPriceUpdated)
		event.AddEventListener(event.SaleCompletedEvent, actionIndexer.TriggerSaleCompleted)
		event.AddEventListener(event.ListingFeeChangedEvent, actionIndexer.TriggerListingFeeChanged)
	}

	if config.Get().Amqp.Enabled {
		publisher := container.GetPublisher()
		event.AddEventListener(event.ListingCreatedEvent, publisher.TriggerListingCreated)
		event.AddEventListener(event.ListingCanceledEvent, publisher.TriggerListingCanceled)
		event.AddEventListener(event.ListingPriceUpdatedEvent, publisher.TriggerListingPriceUpdated)
		event.AddEventListener(event.SaleCompletedEvent, publisher.TriggerSaleCompleted)
	}

	zap.L().With(zap.String("port", config.Get().ApiPort)).Info("Marketplace Started")

	if err := http.ListenAndServe(":"+config.Get().ApiPort, container.GetApi().Router()); err != nil {
		zap.L().With(zap.Error(err)).Fatal("Failed to start marketplace api")
	}
}

func health() {
	if err := http.ListenAndServe(":"+config.Get().HealthPort, router()); err != nil {
		zap.L().With(zap.Error(err)).Error("Failed to start health endpoint")
	}
}

func router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprintf(w, "OK")
	}).Methods("GET")

	return r
}
