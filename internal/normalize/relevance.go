package normalize

import (
	"slices"

	"github.com/sells-group/outreach-cli/internal/model"
	"github.com/sells-group/outreach-cli/internal/textutil"
)

const (
	tierTop = iota
	tierMiddle
	tierLow
	tierUnknown
)

// Word groups are checked low first so qualified labels such as "very low"
// or "not a strong match" never reach the top tier.
var (
	lowWords    = []string{"not", "no", "potential", "somewhat", "low", "weak", "possible", "less", "partial", "minor", "poor"}
	topWords    = []string{"perfect", "excellent", "highly", "high", "strong", "best", "top"}
	middleWords = []string{"good", "medium", "moderate", "relevant", "fair", "decent", "match"}
)

// tier buckets a relevance label or score into one of three tiers. Labels
// are matched word by word.
func tier(v any) int {
	if f, ok := num(v); ok {
		switch {
		case f > 10:
			f /= 100
		case f > 1:
			f /= 10
		}
		switch {
		case f >= 0.8:
			return tierTop
		case f >= 0.5:
			return tierMiddle
		default:
			return tierLow
		}
	}

	words := textutil.Words(str(v))
	if len(words) == 0 {
		return tierUnknown
	}
	for _, group := range []struct {
		words []string
		tier  int
	}{{lowWords, tierLow}, {topWords, tierTop}, {middleWords, tierMiddle}} {
		if slices.ContainsFunc(words, func(w string) bool { return slices.Contains(group.words, w) }) {
			return group.tier
		}
	}
	return tierUnknown
}

// CompanyRelevance maps a raw label or score onto the company tiers,
// defaulting to the middle tier.
func CompanyRelevance(v any) model.CompanyRelevance {
	switch tier(v) {
	case tierTop:
		return model.CompanyPerfectMatch
	case tierLow:
		return model.CompanyPotentialMatch
	default:
		return model.DefaultCompanyRelevance
	}
}

// EmployeeRelevance maps a raw label or score onto the employee tiers,
// defaulting to the middle tier.
func EmployeeRelevance(v any) model.EmployeeRelevance {
	switch tier(v) {
	case tierTop:
		return model.EmployeeHighlyRelevant
	case tierLow:
		return model.EmployeeSomewhatRelevant
	default:
		return model.DefaultEmployeeRelevance
	}
}
