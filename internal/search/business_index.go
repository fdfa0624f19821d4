package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/meilisearch/meilisearch-go"
	"go.uber.org/zap"

	"github.com/catalog-locator/app/models"
)

const defaultBatchSize = 1000

// SearchConfig cấu hình cho Meilisearch
type SearchConfig struct {
	Host      string
	APIKey    string
	IndexName string
	Timeout   time.Duration
	// MaxFetch giới hạn số document mỗi lần lấy catalog
	MaxFetch int64
}

// BusinessIndex catalog doanh nghiệp trên Meilisearch.
// Chỉ dùng filter để lấy phạm vi thô, không dùng relevance ranking.
type BusinessIndex struct {
	client    *ClientWrapper
	logger    *zap.Logger
	indexName string
	maxFetch  int64
}

// NewBusinessIndex tạo mới BusinessIndex và kiểm tra kết nối
func NewBusinessIndex(config SearchConfig, logger *zap.Logger) (*BusinessIndex, error) {
	client := NewClientWrapper(config.Host, config.APIKey)
	if err := client.Healthy(); err != nil {
		return nil, fmt.Errorf("không thể kết nối Meilisearch: %w", err)
	}
	if config.IndexName == "" {
		config.IndexName = "businesses"
	}
	if config.MaxFetch <= 0 {
		config.MaxFetch = 5000
	}
	return &BusinessIndex{
		client:    client,
		logger:    logger,
		indexName: config.IndexName,
		maxFetch:  config.MaxFetch,
	}, nil
}

// FindBusinesses lấy catalog trong phạm vi tỉnh (nếu có)
func (bi *BusinessIndex) FindBusinesses(ctx context.Context, scope models.BusinessScope) ([]models.BusinessRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	result, err := bi.client.cli.Index(bi.indexName).Search("", scopeRequest(scope, bi.maxFetch))
	if err != nil {
		return nil, fmt.Errorf("lỗi tìm kiếm Meilisearch: %w", err)
	}

	records := make([]models.BusinessRecord, 0, len(result.Hits))
	for _, hit := range result.Hits {
		hitMap, ok := hit.(map[string]interface{})
		if !ok {
			continue
		}
		if rec, ok := parseBusinessHit(hitMap); ok {
			records = append(records, rec)
		}
	}
	return records, nil
}

// Count số document trong index
func (bi *BusinessIndex) Count(ctx context.Context) (int64, error) {
	stats, err := bi.client.cli.Index(bi.indexName).GetStats()
	if err != nil {
		return 0, fmt.Errorf("lỗi lấy stats index: %w", err)
	}
	return stats.NumberOfDocuments, nil
}

// scopeRequest placeholder search theo phạm vi, sắp theo id như thứ tự catalog bên Mongo
func scopeRequest(scope models.BusinessScope, maxFetch int64) *meilisearch.SearchRequest {
	limit := scope.Limit
	if limit <= 0 || limit > maxFetch {
		limit = maxFetch
	}
	req := &meilisearch.SearchRequest{
		Limit: limit,
		Sort:  []string{"id:asc"},
	}
	if filter := FilterScope(scope.ProvinceID, nil); filter != "" {
		req.Filter = filter
	}
	return req
}

// indexSettings thuộc tính filter/sort; MaxTotalHits mặc định của Meilisearch (1000)
// phải nâng lên ít nhất maxFetch, nếu không mỗi lần fetch bị cắt ở 1000 hit
func indexSettings(maxFetch int64) *meilisearch.Settings {
	maxHits := maxFetch
	if maxHits < 1000 {
		maxHits = 1000
	}
	return &meilisearch.Settings{
		SearchableAttributes: []string{"name", "service_names"},
		FilterableAttributes: []string{"province_id", "district_id", "category", "subcategory_id"},
		SortableAttributes:   []string{"id"},
		Pagination: &meilisearch.Pagination{
			MaxTotalHits: maxHits,
		},
	}
}

// EnsureSettings cấu hình filter, sort và giới hạn số hit
func (bi *BusinessIndex) EnsureSettings() error {
	task, err := bi.client.cli.Index(bi.indexName).UpdateSettings(indexSettings(bi.maxFetch))
	if err != nil {
		return fmt.Errorf("lỗi cấu hình index: %w", err)
	}
	bi.logger.Info("Đã cấu hình index Meilisearch", zap.String("index", bi.indexName), zap.Int64("task_uid", task.TaskUID))
	return nil
}

// IndexBusinesses nạp catalog vào Meilisearch theo batch
func (bi *BusinessIndex) IndexBusinesses(businesses []models.BusinessRecord) (int, error) {
	if len(businesses) == 0 {
		return 0, errors.New("không có dữ liệu để index")
	}

	documents := make([]map[string]interface{}, 0, len(businesses))
	for _, b := range businesses {
		if b.ID == "" {
			continue
		}
		documents = append(documents, businessDocument(b))
	}

	index := bi.client.cli.Index(bi.indexName)
	for i := 0; i < len(documents); i += defaultBatchSize {
		end := i + defaultBatchSize
		if end > len(documents) {
			end = len(documents)
		}
		task, err := index.AddDocuments(documents[i:end], "id")
		if err != nil {
			return i, fmt.Errorf("lỗi thêm documents batch %d-%d: %w", i, end, err)
		}
		bi.logger.Info("Đã thêm batch documents",
			zap.Int("from", i),
			zap.Int("to", end),
			zap.Int64("task_uid", task.TaskUID))
	}
	return len(documents), nil
}

func businessDocument(b models.BusinessRecord) map[string]interface{} {
	doc := map[string]interface{}{
		"id":             b.ID,
		"name":           b.Name,
		"category":       b.Category,
		"subcategory_id": b.SubcategoryID,
		"service_names":  b.ServiceNames,
	}
	if b.ProvinceID != nil {
		doc["province_id"] = *b.ProvinceID
	}
	if b.DistrictID != nil {
		doc["district_id"] = *b.DistrictID
	}
	if b.Latitude != nil && b.Longitude != nil {
		doc["latitude"] = *b.Latitude
		doc["longitude"] = *b.Longitude
	}
	return doc
}

// parseBusinessHit chuyển hit (JSON decode -> số là float64) thành record
func parseBusinessHit(hit map[string]interface{}) (models.BusinessRecord, bool) {
	var rec models.BusinessRecord

	id, ok := hit["id"].(string)
	if !ok || id == "" {
		return rec, false
	}
	rec.ID = id
	rec.Name, _ = hit["name"].(string)
	rec.Category, _ = hit["category"].(string)
	rec.SubcategoryID, _ = hit["subcategory_id"].(string)

	if raw, ok := hit["service_names"].([]interface{}); ok {
		for _, s := range raw {
			if name, ok := s.(string); ok {
				rec.ServiceNames = append(rec.ServiceNames, name)
			}
		}
	}
	if v, ok := hit["province_id"].(float64); ok {
		id := int(v)
		rec.ProvinceID = &id
	}
	if v, ok := hit["district_id"].(float64); ok {
		id := int(v)
		rec.DistrictID = &id
	}
	lat, latOK := hit["latitude"].(float64)
	lng, lngOK := hit["longitude"].(float64)
	if latOK && lngOK {
		rec.Latitude = &lat
		rec.Longitude = &lng
	}
	return rec, true
}
