// Package geocoder reverse geocoding: tọa độ -> tên tỉnh/huyện.
package geocoder

import (
	"context"
	"errors"

	"github.com/catalog-locator/app/models"
)

// ErrNoResult provider trả lời nhưng không có địa chỉ cho tọa độ
var ErrNoResult = errors.New("geocoder: no result")

// ReverseGeocoder chuyển tọa độ thành tên tỉnh/huyện dạng text tự do.
// Một lần gọi là một lần thử; timeout/cancel qua ctx.
type ReverseGeocoder interface {
	ReverseGeocode(ctx context.Context, c models.Coordinate) (models.GeocodeResult, error)
}

// Func adapter cho hàm thường
type Func func(ctx context.Context, c models.Coordinate) (models.GeocodeResult, error)

func (f Func) ReverseGeocode(ctx context.Context, c models.Coordinate) (models.GeocodeResult, error) {
	return f(ctx, c)
}
