package config

import (
	"github.com/DeedLedger/property-marketplace/internal/log"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"math/big"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Env        string
	Network    string
	Index      string
	Debug      bool
	ApiPort    string
	HealthPort string
	SentryDsn  string

	Marketplace   MarketplaceConfig
	Registry      RegistryConfig
	ElasticSearch ElasticSearchConfig
	Amqp          AmqpConfig
	Aws           AwsConfig
}

type MarketplaceConfig struct {
	Owner          string
	Address        string
	ListingFee     uint64
	ProtocolFeeBps uint64
}

type RegistryConfig struct {
	Url      string
	Timeout  int
	RetryMax int
}

type AmqpConfig struct {
	Enabled bool
	Uri     string
}

type ElasticSearchConfig struct {
	Enabled          bool
	Hosts            []string
	Sniff            bool
	HealthCheck      bool
	Debug            bool
	Username         string
	Password         string
	MappingDir       string
	BulkPersistCount int
	Refresh          string
	Aws              bool
}

type AwsConfig struct {
	AccessKey string
	SecretKey string
	Token     string
	Region    string
}

func Init(app string) {
	loadErr := godotenv.Load(".env")

	log.NewLogger(getString("LOG_PATH", app+".log"), getBool("DEBUG", false), getString("SENTRY_DSN", ""))

	if loadErr != nil {
		zap.L().With(zap.Error(loadErr)).Warn("Unable to load .env")
	}
}

func Get() *Config {
	return &Config{
		Env:        getString("ENV", ""),
		Network:    getString("NETWORK", "mainnet"),
		Index:      getString("INDEX_NAME", "marketplace"),
		Debug:      getBool("DEBUG", false),
		ApiPort:    getString("API_PORT", "8080"),
		HealthPort: getString("HEALTH_PORT", "8081"),
		SentryDsn:  getString("SENTRY_DSN", ""),
		Marketplace: MarketplaceConfig{
			Owner:          getString("MARKETPLACE_OWNER", ""),
			Address:        getString("MARKETPLACE_ADDRESS", ""),
			ListingFee:     getUint64("MARKETPLACE_LISTING_FEE", 0),
			ProtocolFeeBps: getUint64("MARKETPLACE_PROTOCOL_FEE_BPS", 100),
		},
		Registry: RegistryConfig{
			Url:      getString("REGISTRY_URL", ""),
			Timeout:  getInt("REGISTRY_TIMEOUT", 30),
			RetryMax: getInt("REGISTRY_RETRY_MAX", 3),
		},
		Amqp: AmqpConfig{
			Enabled: getBool("AMQP_ENABLED", false),
			Uri:     getString("AMQP_URI", ""),
		},
		Aws: AwsConfig{
			AccessKey: getString("AWS_ACCESS_KEY_ID", ""),
			SecretKey: getString("AWS_SECRET_KEY_ID", ""),
			Token:     getString("AWS_TOKEN", ""),
			Region:    getString("AWS_REGION", ""),
		},
		ElasticSearch: ElasticSearchConfig{
			Enabled:          getBool("ELASTIC_SEARCH_ENABLED", false),
			Hosts:            getSlice("ELASTIC_SEARCH_HOSTS", make([]string, 0), ","),
			Sniff:            getBool("ELASTIC_SEARCH_SNIFF", true),
			HealthCheck:      getBool("ELASTIC_SEARCH_HEALTH_CHECK", true),
			Debug:            getBool("ELASTIC_SEARCH_DEBUG", false),
			Username:         getString("ELASTIC_SEARCH_USERNAME", ""),
			Password:         getString("ELASTIC_SEARCH_PASSWORD", ""),
			MappingDir:       getString("ELASTIC_SEARCH_MAPPING_DIR", "/data/mappings"),
			BulkPersistCount: getInt("ELASTIC_SEARCH_BULK_PERSIST_COUNT", 300),
			Refresh:          getString("ELASTIC_SEARCH_REFRESH", "wait_for"),
			Aws:              getBool("ELASTIC_SEARCH_AWS", false),
		},
	}
}

func getString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}

	return defaultValue
}

func getInt(key string, defaultValue int) int {
	valStr := getString(key, "")
	val, _, err := big.ParseFloat(valStr, 10, 0, big.ToNearestEven)
	if err != nil {
		return defaultValue
	}

	intVal, _ := val.Int64()
	return int(intVal)
}

func getUint64(key string, defaultValue uint64) uint64 {
	valStr := getString(key, "")
	val, err := strconv.ParseUint(valStr, 10, 64)
	if err != nil {
		return defaultValue
	}

	return val
}

func getBool(key string, defaultValue bool) bool {
	valStr := getString(key, "")
	if val, err := strconv.ParseBool(valStr); err == nil {
		return val
	}

	return defaultValue
}

func getSlice(key string, defaultVal []string, sep string) []string {
	valStr := getString(key, "")
	if valStr == "" {
		return defaultVal
	}

	return strings.Split(valStr, sep)
}
