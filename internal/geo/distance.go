// Package geo tính khoảng cách great-circle giữa hai tọa độ
package geo

import (
	"fmt"
	"math"

	"github.com/catalog-locator/app/models"
)

// EarthRadiusKm bán kính Trái Đất dùng cho công thức haversine
const EarthRadiusKm = 6371.0

// UnknownDistance sentinel cho record không có tọa độ
const UnknownDistance = -1.0

// Distance khoảng cách haversine (km) giữa a và b
func Distance(a, b models.Coordinate) float64 {
	lat1 := toRadians(a.Latitude)
	lat2 := toRadians(b.Latitude)
	dLat := lat2 - lat1
	dLon := toRadians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	// sai số làm tròn có thể đẩy h ra ngoài [0, 1]
	h = math.Min(1, math.Max(0, h))

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return EarthRadiusKm * c
}

// IsKnown false với sentinel UnknownDistance
func IsKnown(km float64) bool {
	return km >= 0
}

// FormatDistance: < 1 km -> mét làm tròn, >= 1 km -> km một chữ số thập phân
func FormatDistance(km float64) string {
	if !IsKnown(km) {
		return ""
	}
	if km < 1 {
		return fmt.Sprintf("%d m", int(math.Round(km*1000)))
	}
	return fmt.Sprintf("%.1f km", km)
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
