package model

import "time"

// URLCandidate is a mined URL stem with its classification tags. Both tags may
// be set at once; SameSite reflects ShortHost substring containment.
type URLCandidate struct {
	URL             string
	SameSite        bool
	IsCookiePolicy  bool
	IsPrivacyPolicy bool
}

// TargetSelection holds the one cookie-policy and one privacy-policy URL
// chosen for fetching. The two may be equal when one category fell back on
// the other.
type TargetSelection struct {
	CookiePolicyURL  string
	PrivacyPolicyURL string
}

// AuditRecord is the ledger row persisted per audited domain. Results holds
// the analysis service's response verbatim; it is never parsed here.
type AuditRecord struct {
	Hostname  string    `json:"hostname"`
	Results   string    `json:"results"`
	AuditedAt time.Time `json:"audited_at"`
}
