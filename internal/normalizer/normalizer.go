// Package normalizer chuẩn hóa tên địa danh/doanh nghiệp theo locale tr
// để so khớp không phân biệt hoa thường và dấu.
package normalizer

import (
	"strings"

	"github.com/mozillazg/go-unidecode"
)

// Normalize lower-case theo locale, quy đổi chữ cái đặc thù, bỏ dấu,
// gộp khoảng trắng và trim. Pure, total, idempotent.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	s = lowerTurkish(s)
	s = FoldLocale(s)
	s = StripDiacritics(s)
	return collapseSpaces(s)
}

// Transliterate chuẩn hóa lại qua unidecode, bắt được các chữ cái
// không có dạng phân rã Unicode (ł, ø, ß, ký tự full-width...)
func Transliterate(s string) string {
	n := Normalize(s)
	if n == "" {
		return ""
	}
	return Normalize(unidecode.Unidecode(n))
}

// Equivalent hai chuỗi bằng nhau sau khi normalize
func Equivalent(a, b string) bool {
	return Normalize(a) == Normalize(b)
}

// Related một dạng normalize chứa dạng kia. Chuỗi rỗng không related với gì.
func Related(a, b string) bool {
	return RelatedNormalized(Normalize(a), Normalize(b))
}

// RelatedNormalized như Related nhưng nhận chuỗi đã normalize sẵn
func RelatedNormalized(na, nb string) bool {
	if na == "" || nb == "" {
		return false
	}
	return strings.Contains(na, nb) || strings.Contains(nb, na)
}
