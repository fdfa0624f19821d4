package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/catalog-locator/app/models"
)

// BusinessRepository nguồn catalog doanh nghiệp.
// Chỉ lọc thô theo tỉnh; lọc chính xác do filter pipeline làm.
type BusinessRepository interface {
	FindBusinesses(ctx context.Context, scope models.BusinessScope) ([]models.BusinessRecord, error)
}

// MongoBusinessRepository catalog trong collection businesses
type MongoBusinessRepository struct {
	collection *mongo.Collection
	maxFetch   int64
	logger     *zap.Logger
}

// NewMongoBusinessRepository tạo repository và index province_id
func NewMongoBusinessRepository(db *mongo.Database, maxFetch int64, logger *zap.Logger) *MongoBusinessRepository {
	collection := db.Collection("businesses")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{bson.E{Key: "province_id", Value: 1}, bson.E{Key: "district_id", Value: 1}}},
		{Keys: bson.D{bson.E{Key: "subcategory_id", Value: 1}}},
	})
	if err != nil {
		logger.Warn("Không thể tạo indexes cho businesses", zap.Error(err))
	}

	if maxFetch <= 0 {
		maxFetch = 5000
	}
	return &MongoBusinessRepository{
		collection: collection,
		maxFetch:   maxFetch,
		logger:     logger,
	}
}

// FindBusinesses lấy catalog theo thứ tự _id để kết quả ổn định
func (r *MongoBusinessRepository) FindBusinesses(ctx context.Context, scope models.BusinessScope) ([]models.BusinessRecord, error) {
	filter := bson.M{}
	if scope.ProvinceID != nil {
		filter["province_id"] = *scope.ProvinceID
	}
	limit := scope.Limit
	if limit <= 0 || limit > r.maxFetch {
		limit = r.maxFetch
	}

	opts := options.Find().SetLimit(limit).SetSort(bson.D{bson.E{Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("lỗi query businesses: %w", err)
	}
	defer cursor.Close(ctx)

	var records []models.BusinessRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("lỗi decode businesses: %w", err)
	}
	return records, nil
}

// Count tổng số doanh nghiệp
func (r *MongoBusinessRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

// StaticBusinessRepository catalog trong bộ nhớ (file JSON, test)
type StaticBusinessRepository struct {
	records []models.BusinessRecord
}

// NewStaticBusinessRepository tạo repository từ slice có sẵn
func NewStaticBusinessRepository(records []models.BusinessRecord) *StaticBusinessRepository {
	return &StaticBusinessRepository{records: records}
}

// FindBusinesses lọc thô theo tỉnh, trả về bản sao
func (r *StaticBusinessRepository) FindBusinesses(ctx context.Context, scope models.BusinessScope) ([]models.BusinessRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]models.BusinessRecord, 0, len(r.records))
	for _, b := range r.records {
		if scope.ProvinceID != nil && (b.ProvinceID == nil || *b.ProvinceID != *scope.ProvinceID) {
			continue
		}
		out = append(out, b.Clone())
		if scope.Limit > 0 && int64(len(out)) >= scope.Limit {
			break
		}
	}
	return out, nil
}
