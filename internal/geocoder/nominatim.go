package geocoder

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/catalog-locator/app/models"
	"github.com/catalog-locator/internal/metrics"
)

const (
	DefaultNominatimURL = "https://nominatim.openstreetmap.org"
	defaultUserAgent    = "catalog-locator/1.0"
)

// NominatimConfig cấu hình client Nominatim
type NominatimConfig struct {
	BaseURL   string
	UserAgent string
	Language  string
	// Zoom 10 ~ cấp huyện
	Zoom       int
	HTTPClient *http.Client
}

// NominatimClient reverse geocoder dùng API /reverse của Nominatim
type NominatimClient struct {
	baseURL   string
	userAgent string
	language  string
	zoom      int
	client    *http.Client
	logger    *zap.Logger
}

type nominatimResponse struct {
	Error   string           `json:"error"`
	Address nominatimAddress `json:"address"`
}

type nominatimAddress struct {
	Province     string `json:"province"`
	State        string `json:"state"`
	City         string `json:"city"`
	County       string `json:"county"`
	Town         string `json:"town"`
	CityDistrict string `json:"city_district"`
	Suburb       string `json:"suburb"`
}

// NewNominatimClient tạo client; các field rỗng lấy giá trị mặc định
func NewNominatimClient(cfg NominatimConfig, logger *zap.Logger) *NominatimClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultNominatimURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.Language == "" {
		cfg.Language = "tr"
	}
	if cfg.Zoom == 0 {
		cfg.Zoom = 10
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 5 * time.Second}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NominatimClient{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		language:  cfg.Language,
		zoom:      cfg.Zoom,
		client:    cfg.HTTPClient,
		logger:    logger,
	}
}

// ReverseGeocode gọi /reverse?format=jsonv2
func (n *NominatimClient) ReverseGeocode(ctx context.Context, c models.Coordinate) (models.GeocodeResult, error) {
	q := url.Values{}
	q.Set("format", "jsonv2")
	q.Set("lat", strconv.FormatFloat(c.Latitude, 'f', 6, 64))
	q.Set("lon", strconv.FormatFloat(c.Longitude, 'f', 6, 64))
	q.Set("zoom", strconv.Itoa(n.zoom))
	q.Set("addressdetails", "1")
	q.Set("accept-language", n.language)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"/reverse?"+q.Encode(), nil)
	if err != nil {
		return models.GeocodeResult{}, err
	}
	req.Header.Set("User-Agent", n.userAgent)
	req.Header.Set("Accept", "application/json")

	t0 := time.Now()
	metrics.GeocoderRequestsTotal.Inc()
	defer func() {
		metrics.GeocoderDurationMs.Observe(float64(time.Since(t0).Milliseconds()))
	}()

	resp, err := n.client.Do(req)
	if err != nil {
		metrics.GeocoderFailTotal.Inc()
		return models.GeocodeResult{}, fmt.Errorf("nominatim request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.GeocoderFailTotal.Inc()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return models.GeocodeResult{}, fmt.Errorf("nominatim status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var r nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		metrics.GeocoderFailTotal.Inc()
		return models.GeocodeResult{}, fmt.Errorf("nominatim decode: %w", err)
	}
	if r.Error != "" {
		return models.GeocodeResult{}, fmt.Errorf("%w: %s", ErrNoResult, r.Error)
	}

	result := r.Address.toGeocodeResult()
	n.logger.Debug("nominatim reverse",
		zap.Float64("lat", c.Latitude),
		zap.Float64("lng", c.Longitude),
		zap.String("city", result.CityName),
		zap.String("district", result.DistrictName),
		zap.Duration("took", time.Since(t0)),
	)
	if result.IsEmpty() {
		return result, ErrNoResult
	}
	return result, nil
}

// Ở Thổ Nhĩ Kỳ il nằm ở province (đôi khi state/city), ilçe ở county/town.
func (a nominatimAddress) toGeocodeResult() models.GeocodeResult {
	return models.GeocodeResult{
		CityName:     firstNonEmpty(a.Province, a.State, a.City),
		DistrictName: firstNonEmpty(a.County, a.Town, a.CityDistrict, a.Suburb),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
