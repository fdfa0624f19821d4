package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/catalog-locator/app/models"
)

// LocationSource nguồn bộ dữ liệu địa giới chuẩn
type LocationSource interface {
	LoadDataset(ctx context.Context) (*models.LocationDataset, error)
}

// StaticLocationSource dataset có sẵn trong bộ nhớ
type StaticLocationSource struct {
	Dataset models.LocationDataset
}

func (s *StaticLocationSource) LoadDataset(ctx context.Context) (*models.LocationDataset, error) {
	ds := models.LocationDataset{
		Provinces: append([]models.Province(nil), s.Dataset.Provinces...),
		Districts: append([]models.District(nil), s.Dataset.Districts...),
	}
	return &ds, nil
}

// FileLocationSource đọc dataset JSON mỗi lần load, để reload nhận file mới
type FileLocationSource struct {
	Path string
}

func (s *FileLocationSource) LoadDataset(ctx context.Context) (*models.LocationDataset, error) {
	return ReadLocationDataset(s.Path)
}

// ReadLocationDataset đọc file JSON {provinces, districts}
func ReadLocationDataset(path string) (*models.LocationDataset, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("lỗi đọc dataset %s: %w", path, err)
	}
	var ds models.LocationDataset
	if err := json.Unmarshal(b, &ds); err != nil {
		return nil, fmt.Errorf("lỗi parse dataset %s: %w", path, err)
	}
	return &ds, nil
}

// MongoLocationSource dataset trong collection provinces/districts
type MongoLocationSource struct {
	db *mongo.Database
}

// NewMongoLocationSource tạo mới MongoLocationSource
func NewMongoLocationSource(db *mongo.Database) *MongoLocationSource {
	return &MongoLocationSource{db: db}
}

// LoadDataset đọc toàn bộ dataset, sắp theo _id để thứ tự ổn định
func (s *MongoLocationSource) LoadDataset(ctx context.Context) (*models.LocationDataset, error) {
	byID := options.Find().SetSort(bson.D{bson.E{Key: "_id", Value: 1}})

	var ds models.LocationDataset
	cursor, err := s.db.Collection("provinces").Find(ctx, bson.M{}, byID)
	if err != nil {
		return nil, fmt.Errorf("lỗi query provinces: %w", err)
	}
	if err := cursor.All(ctx, &ds.Provinces); err != nil {
		return nil, fmt.Errorf("lỗi decode provinces: %w", err)
	}

	cursor, err = s.db.Collection("districts").Find(ctx, bson.M{}, byID)
	if err != nil {
		return nil, fmt.Errorf("lỗi query districts: %w", err)
	}
	if err := cursor.All(ctx, &ds.Districts); err != nil {
		return nil, fmt.Errorf("lỗi decode districts: %w", err)
	}
	return &ds, nil
}

// Upsert ghi đè dataset theo _id bằng bulk write
func (s *MongoLocationSource) Upsert(ctx context.Context, ds *models.LocationDataset) (int64, error) {
	var total int64

	if len(ds.Provinces) > 0 {
		writes := make([]mongo.WriteModel, 0, len(ds.Provinces))
		for _, p := range ds.Provinces {
			writes = append(writes, mongo.NewReplaceOneModel().
				SetFilter(bson.M{"_id": p.ID}).
				SetReplacement(p).
				SetUpsert(true))
		}
		res, err := s.db.Collection("provinces").BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))
		if err != nil {
			return total, fmt.Errorf("lỗi upsert provinces: %w", err)
		}
		total += res.UpsertedCount + res.ModifiedCount
	}

	if len(ds.Districts) > 0 {
		writes := make([]mongo.WriteModel, 0, len(ds.Districts))
		for _, d := range ds.Districts {
			writes = append(writes, mongo.NewReplaceOneModel().
				SetFilter(bson.M{"_id": d.ID}).
				SetReplacement(d).
				SetUpsert(true))
		}
		res, err := s.db.Collection("districts").BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))
		if err != nil {
			return total, fmt.Errorf("lỗi upsert districts: %w", err)
		}
		total += res.UpsertedCount + res.ModifiedCount
	}
	return total, nil
}
