package di

import (
	"github.com/DeedLedger/property-marketplace/internal/actionlog"
	"github.com/DeedLedger/property-marketplace/internal/api"
	"github.com/DeedLedger/property-marketplace/internal/assetregistry"
	"github.com/DeedLedger/property-marketplace/internal/elastic_search"
	"github.com/DeedLedger/property-marketplace/internal/funds"
	"github.com/DeedLedger/property-marketplace/internal/marketplace"
	"github.com/DeedLedger/property-marketplace/internal/messenger"
	"github.com/DeedLedger/property-marketplace/internal/repository"
	"github.com/sarulabs/di/v2"
)

type Container struct {
	ctn di.Container
}

func NewContainer() (*Container, error) {
	builder, err := di.NewBuilder()
	if err != nil {
		return nil, err
	}

	if err := builder.Add(Definitions...); err != nil {
		return nil, err
	}

	return &Container{ctn: builder.Build()}, nil
}

func (c *Container) GetElastic() elastic_search.Index {
	return c.ctn.Get("elastic").(elastic_search.Index)
}

func (c *Container) GetListingRepo() repository.ListingRepository {
	return c.ctn.Get("listing.repo").(repository.ListingRepository)
}

func (c *Container) GetFeeLedger() marketplace.FeeLedger {
	return c.ctn.Get("fees").(marketplace.FeeLedger)
}

func (c *Container) GetRegistry() assetregistry.Registry {
	return c.ctn.Get("registry").(assetregistry.Registry)
}

func (c *Container) GetBank() funds.Transferer {
	return c.ctn.Get("bank").(funds.Transferer)
}

func (c *Container) GetMarketplace() marketplace.Marketplace {
	return c.ctn.Get("marketplace").(marketplace.Marketplace)
}

func (c *Container) GetActionIndexer() actionlog.Indexer {
	return c.ctn.Get("actionlog.indexer").(actionlog.Indexer)
}

func (c *Container) GetMessenger() messenger.MessageService {
	return c.ctn.Get("messenger").(messenger.MessageService)
}

func (c *Container) GetPublisher() messenger.Publisher {
	return c.ctn.Get("messenger.publisher").(messenger.Publisher)
}

func (c *Container) GetApi() api.Server {
	return c.ctn.Get("api").(api.Server)
}
