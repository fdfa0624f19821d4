package models

import (
	"fmt"
	"math"
)

// Coordinate tọa độ WGS84 (độ thập phân)
type Coordinate struct {
	Latitude  float64 `json:"latitude" bson:"latitude"`
	Longitude float64 `json:"longitude" bson:"longitude"`
}

// Validate kiểm tra tọa độ nằm trong miền hợp lệ
func (c Coordinate) Validate() error {
	if math.IsNaN(c.Latitude) || c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("%w: latitude %v ngoài khoảng [-90, 90]", ErrInvalidCoordinate, c.Latitude)
	}
	if math.IsNaN(c.Longitude) || c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("%w: longitude %v ngoài khoảng [-180, 180]", ErrInvalidCoordinate, c.Longitude)
	}
	return nil
}

// Province tỉnh (il) trong bộ dữ liệu địa giới chuẩn
type Province struct {
	ID        int     `bson:"_id" json:"id"`
	Name      string  `bson:"name" json:"name"`
	Latitude  float64 `bson:"latitude" json:"latitude"`
	Longitude float64 `bson:"longitude" json:"longitude"`
}

// Coordinate trả về tâm của tỉnh
func (p Province) Coordinate() Coordinate {
	return Coordinate{Latitude: p.Latitude, Longitude: p.Longitude}
}

// District huyện (ilçe), luôn thuộc đúng một Province
type District struct {
	ID         int     `bson:"_id" json:"id"`
	ProvinceID int     `bson:"province_id" json:"province_id"`
	Name       string  `bson:"name" json:"name"`
	Latitude   float64 `bson:"latitude" json:"latitude"`
	Longitude  float64 `bson:"longitude" json:"longitude"`
}

// GeocodeResult tên địa danh thô do reverse geocoder trả về, không đáng tin cậy
type GeocodeResult struct {
	CityName     string `json:"city_name"`
	DistrictName string `json:"district_name"`
}

// IsEmpty true khi geocoder không trả về tên nào
func (g GeocodeResult) IsEmpty() bool {
	return g.CityName == "" && g.DistrictName == ""
}

// MatchTier tầng matching đã quyết định kết quả
type MatchTier string

const (
	MatchTierNone           MatchTier = "none"
	MatchTierExplicit       MatchTier = "explicit"
	MatchTierExact          MatchTier = "exact"
	MatchTierContainment    MatchTier = "containment"
	MatchTierTransliterated MatchTier = "transliterated"
)

// ResolvedLocation kết quả resolve vị trí.
// District != nil thì Province != nil và Province.ID == District.ProvinceID.
type ResolvedLocation struct {
	Province      *Province `json:"province,omitempty"`
	District      *District `json:"district,omitempty"`
	ProvinceMatch MatchTier `json:"province_match"`
	DistrictMatch MatchTier `json:"district_match"`
}

// Unresolved vị trí rỗng: không áp dụng filter địa giới
func Unresolved() ResolvedLocation {
	return ResolvedLocation{ProvinceMatch: MatchTierNone, DistrictMatch: MatchTierNone}
}

// IsResolved cho biết đã xác định được ít nhất tỉnh hay chưa
func (r ResolvedLocation) IsResolved() bool {
	return r.Province != nil
}

// LocationDataset bộ dữ liệu địa giới (file seed, snapshot)
type LocationDataset struct {
	Provinces []Province `json:"provinces"`
	Districts []District `json:"districts"`
}
