// Package search lưu catalog doanh nghiệp trên Meilisearch để lấy theo phạm vi tỉnh/huyện
package search

import (
	"fmt"
	"strings"

	ms "github.com/meilisearch/meilisearch-go"
)

// ClientWrapper bọc Meilisearch client
type ClientWrapper struct {
	cli ms.ServiceManager
}

// NewClientWrapper tạo client
func NewClientWrapper(url, key string) *ClientWrapper {
	return &ClientWrapper{cli: ms.New(url, ms.WithAPIKey(key))}
}

// Healthy kiểm tra kết nối
func (c *ClientWrapper) Healthy() error {
	_, err := c.cli.Health()
	return err
}

// FilterScope tạo filter string cho province/district, rỗng khi không có điều kiện
func FilterScope(provinceID, districtID *int) string {
	var parts []string
	if provinceID != nil {
		parts = append(parts, fmt.Sprintf("province_id = %d", *provinceID))
	}
	if districtID != nil {
		parts = append(parts, fmt.Sprintf("district_id = %d", *districtID))
	}
	return strings.Join(parts, " AND ")
}
