package normalizer

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data/locale_tr.yaml
var localeYAML []byte

// LocaleRules bảng quy đổi ký tự của locale, load từ YAML nhúng
type LocaleRules struct {
	Locale               string            `yaml:"locale"`
	Fold                 map[string]string `yaml:"fold"`
	GenericDistrictNames []string          `yaml:"generic_district_names"`
}

// LoadLocaleRules parse bảng locale nhúng
func LoadLocaleRules() (*LocaleRules, error) {
	rules := &LocaleRules{}
	if err := yaml.Unmarshal(localeYAML, rules); err != nil {
		return nil, fmt.Errorf("lỗi parse locale rules: %w", err)
	}
	if len(rules.Fold) == 0 {
		return nil, fmt.Errorf("locale %q không có bảng fold", rules.Locale)
	}
	return rules, nil
}

// replacer dựng strings.Replacer từ bảng fold (an toàn khi dùng đồng thời)
func (r *LocaleRules) replacer() *strings.Replacer {
	pairs := make([]string, 0, len(r.Fold)*2)
	for from, to := range r.Fold {
		pairs = append(pairs, from, to)
	}
	return strings.NewReplacer(pairs...)
}

var (
	localeRules  = mustLoadLocaleRules()
	localeFolder = localeRules.replacer()
)

func mustLoadLocaleRules() *LocaleRules {
	rules, err := LoadLocaleRules()
	if err != nil {
		panic(err)
	}
	return rules
}

// GenericDistrictNames danh sách tên huyện chung chung mặc định (đã normalize)
func GenericDistrictNames() []string {
	out := make([]string, 0, len(localeRules.GenericDistrictNames))
	for _, name := range localeRules.GenericDistrictNames {
		out = append(out, Normalize(name))
	}
	return out
}
