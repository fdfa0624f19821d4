package resolver

import (
	"github.com/agnivade/levenshtein"
	"github.com/xrash/smetrics"
)

// pick chọn ứng viên tốt nhất trong các tên thỏa accept.
// Tie-break: Jaro-Winkler cao nhất, rồi Levenshtein nhỏ nhất, rồi thứ tự dataset.
func (r *LocationResolver) pick(query string, names []string, accept func(name, query string) bool) int {
	best := -1
	var bestJW float64
	var bestLev int

	for i, name := range names {
		if !accept(name, query) {
			continue
		}
		jw := smetrics.JaroWinkler(query, name, r.jwBoost, r.jwPrefix)
		lev := levenshtein.ComputeDistance(query, name)
		if best < 0 || jw > bestJW || (jw == bestJW && lev < bestLev) {
			best, bestJW, bestLev = i, jw, lev
		}
	}
	return best
}
