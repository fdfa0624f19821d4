package models

// BusinessRecord doanh nghiệp trong catalog. Core chỉ đọc, không bao giờ sửa.
type BusinessRecord struct {
	ID            string   `bson:"_id" json:"id"`
	Name          string   `bson:"name" json:"name"`
	Category      string   `bson:"category" json:"category"`
	SubcategoryID string   `bson:"subcategory_id,omitempty" json:"subcategory_id,omitempty"`
	ServiceNames  []string `bson:"service_names,omitempty" json:"service_names,omitempty"`
	ProvinceID    *int     `bson:"province_id,omitempty" json:"province_id,omitempty"`
	DistrictID    *int     `bson:"district_id,omitempty" json:"district_id,omitempty"`
	Latitude      *float64 `bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude     *float64 `bson:"longitude,omitempty" json:"longitude,omitempty"`
}

// Coordinate trả về tọa độ nếu record có đủ lat/lng
func (b BusinessRecord) Coordinate() (Coordinate, bool) {
	if b.Latitude == nil || b.Longitude == nil {
		return Coordinate{}, false
	}
	return Coordinate{Latitude: *b.Latitude, Longitude: *b.Longitude}, true
}

// Clone deep copy, các con trỏ không dùng chung với bản gốc
func (b BusinessRecord) Clone() BusinessRecord {
	out := b
	if b.ServiceNames != nil {
		out.ServiceNames = append([]string(nil), b.ServiceNames...)
	}
	out.ProvinceID = cloneInt(b.ProvinceID)
	out.DistrictID = cloneInt(b.DistrictID)
	out.Latitude = cloneFloat(b.Latitude)
	out.Longitude = cloneFloat(b.Longitude)
	return out
}

// BusinessResult bản sao đã được annotate khoảng cách.
// Distance nil khi request không có origin.
type BusinessResult struct {
	BusinessRecord
	Distance *float64 `json:"distance_km,omitempty"`
}

// FilterRequest tập filter của một lần truy vấn, mọi field đều optional
type FilterRequest struct {
	ProvinceID     *int        `json:"province_id,omitempty"`
	DistrictID     *int        `json:"district_id,omitempty"`
	Category       string      `json:"category,omitempty"`
	SubcategoryID  string      `json:"subcategory_id,omitempty"`
	SearchText     string      `json:"search_text,omitempty"`
	Origin         *Coordinate `json:"origin,omitempty"`
	SortByDistance bool        `json:"sort_by_distance,omitempty"`
	RadiusKm       float64     `json:"radius_km,omitempty"`
}

// HasExplicitRegion true khi người dùng đã chọn tỉnh/huyện
func (r FilterRequest) HasExplicitRegion() bool {
	return r.ProvinceID != nil || r.DistrictID != nil
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// BusinessScope phạm vi thô khi lấy catalog từ repository.
// Lọc chính xác vẫn do filter pipeline làm.
type BusinessScope struct {
	ProvinceID *int
	Limit      int64
}
