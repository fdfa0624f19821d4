package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/catalog-locator/internal/resolver"
)

type ResolverCfg struct {
	// không khai báo -> lấy từ locale nhúng trong normalizer; `[]` tắt guard
	GenericDistrictNames []string `yaml:"generic_district_names" json:"generic_district_names"`
	JWBoostThreshold     float64  `yaml:"jw_boost_threshold" json:"jw_boost_threshold"`
	JWPrefixSize         int      `yaml:"jw_prefix_size" json:"jw_prefix_size"`
}

type GeocoderCfg struct {
	// nominatim | none
	Provider  string `yaml:"provider" json:"provider"`
	BaseURL   string `yaml:"base_url" json:"base_url"`
	UserAgent string `yaml:"user_agent" json:"user_agent"`
	Language  string `yaml:"language" json:"language"`
	TimeoutMs int    `yaml:"timeout_ms" json:"timeout_ms"`
}

type CacheCfg struct {
	MemorySize     int `yaml:"memory_size" json:"memory_size"`
	MemoryTTLSec   int `yaml:"memory_ttl_sec" json:"memory_ttl_sec"`
	RedisTTLSec    int `yaml:"redis_ttl_sec" json:"redis_ttl_sec"`
	RoundPrecision int `yaml:"round_precision" json:"round_precision"`
}

type CatalogSourceCfg struct {
	// mongo | meilisearch
	Source       string `yaml:"source" json:"source"`
	MaxFetch     int64  `yaml:"max_fetch" json:"max_fetch"`
	DatasetFile  string `yaml:"dataset_file" json:"dataset_file"`
	MeiliIndex   string `yaml:"meili_index" json:"meili_index"`
	DefaultLimit int    `yaml:"default_limit" json:"default_limit"`
}

type CatalogCfg struct {
	Resolver ResolverCfg      `yaml:"resolver" json:"resolver"`
	Geocoder GeocoderCfg      `yaml:"geocoder" json:"geocoder"`
	Cache    CacheCfg         `yaml:"cache" json:"cache"`
	Catalog  CatalogSourceCfg `yaml:"catalog" json:"catalog"`
}

var C = Default()

// Default cấu hình khi không có file
func Default() CatalogCfg {
	return CatalogCfg{
		Resolver: ResolverCfg{
			JWBoostThreshold: 0.7,
			JWPrefixSize:     4,
		},
		Geocoder: GeocoderCfg{
			Provider:  "nominatim",
			Language:  "tr",
			TimeoutMs: 1500,
		},
		Cache: CacheCfg{
			MemorySize:     10000,
			MemoryTTLSec:   600,
			RedisTTLSec:    86400,
			RoundPrecision: 3,
		},
		Catalog: CatalogSourceCfg{
			Source:       "mongo",
			MaxFetch:     5000,
			MeiliIndex:   "businesses",
			DefaultLimit: 50,
		},
	}
}

func Load(path string) error {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return err
	}
	// ENV overrides
	if v := os.Getenv("GEOCODER_TIMEOUT_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			cfg.Geocoder.TimeoutMs = ms
		}
	}
	if v := strings.TrimSpace(os.Getenv("GEOCODER_PROVIDER")); v != "" {
		cfg.Geocoder.Provider = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv("CATALOG_SOURCE")); v != "" {
		cfg.Catalog.Source = v
	}
	source, err := catalogSource(cfg.Catalog.Source)
	if err != nil {
		return err
	}
	cfg.Catalog.Source = source
	C = cfg
	return nil
}

// catalogSource chuẩn hóa tên nguồn catalog; nguồn lạ là lỗi cấu hình
func catalogSource(v string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "mongo", "mongodb":
		return "mongo", nil
	case "meilisearch", "meili":
		return "meilisearch", nil
	default:
		return "", fmt.Errorf("catalog.source không hợp lệ: %q (mongo|meilisearch)", v)
	}
}

// GeocodeTimeout timeout cho một lần gọi geocoder
func GeocodeTimeout() time.Duration {
	if C.Geocoder.TimeoutMs <= 0 {
		return 1500 * time.Millisecond
	}
	return time.Duration(C.Geocoder.TimeoutMs) * time.Millisecond
}

func MemoryTTL() time.Duration { return time.Duration(C.Cache.MemoryTTLSec) * time.Second }

func RedisTTL() time.Duration { return time.Duration(C.Cache.RedisTTLSec) * time.Second }

// ResolverOptions options cho resolver; giá trị rỗng giữ mặc định của resolver
func ResolverOptions() resolver.Options {
	opts := resolver.DefaultOptions()
	if C.Resolver.GenericDistrictNames != nil {
		opts.GenericDistrictNames = C.Resolver.GenericDistrictNames
	}
	if C.Resolver.JWBoostThreshold > 0 {
		opts.JWBoostThreshold = C.Resolver.JWBoostThreshold
	}
	if C.Resolver.JWPrefixSize > 0 {
		opts.JWPrefixSize = C.Resolver.JWPrefixSize
	}
	return opts
}
