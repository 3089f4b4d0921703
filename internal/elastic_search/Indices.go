package elastic_search

import (
	"fmt"
	"github.com/DeedLedger/property-marketplace/internal/config"
)

type Indices string

var (
	MarketplaceActionIndex Indices = "action"
)

// Prefixes the network and index name and returns the full string
func (i *Indices) Get() string {
	return fmt.Sprintf("%s.%s.%s", config.Get().Network, config.Get().Index, string(*i))
}

func All() []Indices {
	return []Indices{
		MarketplaceActionIndex,
	}
}
