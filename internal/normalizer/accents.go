package normalizer

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// StripDiacritics loại bỏ mọi dấu kết hợp (Mn) còn sót lại
func StripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn), norm.NFC)
	out, _, _ := transform.String(t, s)
	return out
}

// isMn kiểm tra xem rune có phải là diacritic mark không
func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}

// lowerTurkish lower-case theo quy tắc tiếng Thổ (I -> ı, İ -> i).
// Caser có state nên tạo mới mỗi lần gọi.
func lowerTurkish(s string) string {
	return cases.Lower(language.Turkish).String(s)
}

// FoldLocale quy đổi chữ cái đặc thù của locale về Latin cơ bản
func FoldLocale(s string) string {
	return localeFolder.Replace(s)
}

// collapseSpaces gộp khoảng trắng liên tiếp và trim hai đầu
func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
