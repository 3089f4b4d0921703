package di

import (
	"github.com/DeedLedger/property-marketplace/internal/actionlog"
	"github.com/DeedLedger/property-marketplace/internal/api"
	"github.com/DeedLedger/property-marketplace/internal/assetregistry"
	"github.com/DeedLedger/property-marketplace/internal/config"
	"github.com/DeedLedger/property-marketplace/internal/elastic_search"
	"github.com/DeedLedger/property-marketplace/internal/funds"
	"github.com/DeedLedger/property-marketplace/internal/marketplace"
	"github.com/DeedLedger/property-marketplace/internal/messenger"
	"github.com/DeedLedger/property-marketplace/internal/repository"
	"github.com/patrickmn/go-cache"
	"github.com/sarulabs/di/v2"
	"go.uber.org/zap"
)

var Definitions = []di.Def{
	{
		Name: "elastic",
		Build: func(ctn di.Container) (interface{}, error) {
			elastic, err := elastic_search.New()
			if err != nil {
				zap.L().With(zap.Error(err)).Fatal("Failed to start ES")
			}

			return elastic, nil
		},
	},
	{
		Name: "listing.store",
		Build: func(ctn di.Container) (interface{}, error) {
			return cache.New(cache.NoExpiration, 0), nil
		},
	},
	{
		Name: "listing.repo",
		Build: func(ctn di.Container) (interface{}, error) {
			return repository.NewListingRepository(ctn.Get("listing.store").(*cache.Cache)), nil
		},
	},
	{
		Name: "fees",
		Build: func(ctn di.Container) (interface{}, error) {
			cfg := config.Get().Marketplace
			return marketplace.NewFeeLedger(cfg.ListingFee, cfg.ProtocolFeeBps), nil
		},
	},
	{
		Name: "registry",
		Build: func(ctn di.Container) (interface{}, error) {
			cfg := config.Get()
			if cfg.Registry.Url == "" {
				zap.L().Warn("No registry url configured, using in-memory registry")
				return assetregistry.NewMemoryRegistry(cfg.Marketplace.Address), nil
			}

			return assetregistry.NewClient(cfg.Registry.Url, cfg.Registry.Timeout, cfg.Registry.RetryMax), nil
		},
	},
	{
		Name: "bank",
		Build: func(ctn di.Container) (interface{}, error) {
			return funds.NewMemoryBank(), nil
		},
	},
	{
		Name: "marketplace",
		Build: func(ctn di.Container) (interface{}, error) {
			cfg := config.Get().Marketplace
			return marketplace.NewMarketplace(
				cfg.Owner,
				cfg.Address,
				ctn.Get("listing.repo").(repository.ListingRepository),
				ctn.Get("fees").(marketplace.FeeLedger),
				ctn.Get("registry").(assetregistry.Registry),
				ctn.Get("bank").(funds.Transferer),
			), nil
		},
	},
	{
		Name: "actionlog.indexer",
		Build: func(ctn di.Container) (interface{}, error) {
			return actionlog.NewIndexer(ctn.Get("elastic").(elastic_search.Index)), nil
		},
	},
	{
		Name: "messenger",
		Build: func(ctn di.Container) (interface{}, error) {
			return messenger.NewMessenger(config.Get().Amqp.Uri), nil
		},
	},
	{
		Name: "messenger.publisher",
		Build: func(ctn di.Container) (interface{}, error) {
			return messenger.NewPublisher(ctn.Get("messenger").(messenger.MessageService)), nil
		},
	},
	{
		Name: "api",
		Build: func(ctn di.Container) (interface{}, error) {
			return api.NewServer(ctn.Get("marketplace").(marketplace.Marketplace)), nil
		},
	},
}
