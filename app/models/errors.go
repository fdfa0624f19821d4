package models

import "errors"

var (
	// ErrInvalidCoordinate tọa độ ngoài miền hợp lệ (lỗi phía caller)
	ErrInvalidCoordinate = errors.New("invalid coordinate")

	// ErrUnknownRegion id tỉnh/huyện không tồn tại trong bộ dữ liệu
	ErrUnknownRegion = errors.New("unknown region")
)
