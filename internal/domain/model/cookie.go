package model

import "fmt"

// CookieRecord is one browser cookie as captured in a snapshot. Two cookies
// are the same cookie iff Name and Domain match; Path and the flags are kept
// for the inventory text but ignored for identity.
type CookieRecord struct {
	Name     string
	Domain   string
	HTTPOnly bool
	Secure   bool
	Path     string
}

func (c CookieRecord) Key() string {
	return c.Name + "\x00" + c.Domain
}

func (c CookieRecord) String() string {
	return fmt.Sprintf("Name: %s, Domain: %s", c.Name, c.Domain)
}

// CookieTimelineEntry places one cookie on the consent timeline. Every cookie
// from the after-consent snapshot lands in exactly one bucket: set before
// consent, or newly triggered by the consent interaction. PresentAfterConsent
// distinguishes before-consent cookies that survived into the after snapshot
// from ones that vanished in between.
type CookieTimelineEntry struct {
	Cookie              CookieRecord
	SetBeforeConsent    bool
	TriggeredByConsent  bool
	PresentAfterConsent bool
}
