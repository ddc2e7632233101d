package audit

import (
	"strings"

	"gdprauditor/internal/domain/model"
)

// Classifier tags mined URLs against the keyword catalog. Pure membership
// testing: keyword order carries no priority, and a URL may be tagged as both
// cookie and privacy policy at once.
type Classifier struct {
	catalog Catalog
}

func InitClassifier(catalog Catalog) *Classifier {
	return &Classifier{catalog: catalog}
}

// Classify cuts each mined URL at the first quote or backslash, lowercases
// the stem, and tags it. Only stems containing the domain's short host count
// as same-site.
func (c *Classifier) Classify(domain model.Domain, urls []string) []model.URLCandidate {
	candidates := make([]model.URLCandidate, 0, len(urls))
	for _, u := range urls {
		stem := u
		if i := strings.IndexAny(stem, `"'\`); i >= 0 {
			stem = stem[:i]
		}
		normalized := strings.ToLower(stem)

		candidate := model.URLCandidate{
			URL:      stem,
			SameSite: strings.Contains(normalized, domain.ShortHost),
		}
		if candidate.SameSite {
			candidate.IsCookiePolicy = containsAny(normalized, c.catalog.CookieKeywords)
			candidate.IsPrivacyPolicy = containsAny(normalized, c.catalog.PrivacyKeywords)
		}
		candidates = append(candidates, candidate)
	}
	return candidates
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// SelectTargets picks one URL per policy category, preserving first-matched
// order. A category with no candidates falls back to the other category's
// first candidate, then to the domain root. When both categories are empty
// the domain is skipped entirely, reported by the false return.
func SelectTargets(domain model.Domain, candidates []model.URLCandidate) (model.TargetSelection, bool) {
	var cookieList, privacyList []string
	for _, cand := range candidates {
		if !cand.SameSite {
			continue
		}
		if cand.IsCookiePolicy {
			cookieList = append(cookieList, cand.URL)
		}
		if cand.IsPrivacyPolicy {
			privacyList = append(privacyList, cand.URL)
		}
	}

	if len(cookieList) == 0 && len(privacyList) == 0 {
		return model.TargetSelection{}, false
	}

	var selection model.TargetSelection
	switch {
	case len(cookieList) > 0:
		selection.CookiePolicyURL = cookieList[0]
	case len(privacyList) > 0:
		selection.CookiePolicyURL = privacyList[0]
	default:
		selection.CookiePolicyURL = domain.RootURL()
	}
	switch {
	case len(privacyList) > 0:
		selection.PrivacyPolicyURL = privacyList[0]
	case len(cookieList) > 0:
		selection.PrivacyPolicyURL = cookieList[0]
	default:
		selection.PrivacyPolicyURL = domain.RootURL()
	}
	return selection, true
}
