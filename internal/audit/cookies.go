package audit

import (
	"fmt"
	"strings"

	"gdprauditor/internal/domain/model"
)

// DiffCookies builds the consent timeline from the two snapshots. Every
// before-snapshot cookie is emitted as set-before-consent; every after-only
// cookie (by name+domain identity) as triggered-by-consent. A before-consent
// cookie missing from the after snapshot keeps its violation entry but is
// not marked present; there is no dedicated removal tracking beyond that.
func DiffCookies(before, after []model.CookieRecord) []model.CookieTimelineEntry {
	afterKeys := make(map[string]bool, len(after))
	for _, c := range after {
		afterKeys[c.Key()] = true
	}

	entries := make([]model.CookieTimelineEntry, 0, len(before)+len(after))
	seen := make(map[string]bool, len(before))
	for _, c := range before {
		seen[c.Key()] = true
		entries = append(entries, model.CookieTimelineEntry{
			Cookie:              c,
			SetBeforeConsent:    true,
			PresentAfterConsent: afterKeys[c.Key()],
		})
	}
	for _, c := range after {
		if seen[c.Key()] {
			continue
		}
		entries = append(entries, model.CookieTimelineEntry{
			Cookie:              c,
			TriggeredByConsent:  true,
			PresentAfterConsent: true,
		})
	}
	return entries
}

// RenderCookieInventory produces the two-section scan block embedded in the
// analysis prompt. The after section lists exactly the after-snapshot
// cookies, repeating surviving pre-consent ones and marking consent-triggered
// ones distinctly, mirroring how the auditor is told to assign
// set_before_consent in its JSON output.
func RenderCookieInventory(entries []model.CookieTimelineEntry) string {
	var beforeCount, afterCount int
	for _, e := range entries {
		if e.SetBeforeConsent {
			beforeCount++
		}
		if e.PresentAfterConsent {
			afterCount++
		}
	}

	var b strings.Builder
	b.WriteString("=== COOKIES SET BEFORE CONSENT (VIOLATIONS) ===\n")
	fmt.Fprintf(&b, "Total Count: %d\n", beforeCount)
	b.WriteString("These cookies were detected BEFORE the user clicked any consent button.\n")
	b.WriteString("For the JSON output, mark these with \"set_before_consent\": true\n\n")
	for _, e := range entries {
		if e.SetBeforeConsent {
			fmt.Fprintf(&b, "- %s\n", e.Cookie)
		}
	}

	b.WriteString("\n=== COOKIES SET AFTER CONSENT (COMPLIANT) ===\n")
	fmt.Fprintf(&b, "Total Count: %d\n", afterCount)
	b.WriteString("These cookies were detected AFTER the user clicked the consent button.\n")
	b.WriteString("For the JSON output, mark NEW cookies (not in the above list) with \"set_before_consent\": false\n\n")
	for _, e := range entries {
		if !e.PresentAfterConsent {
			continue
		}
		if e.TriggeredByConsent {
			fmt.Fprintf(&b, "- %s (NEW - triggered by consent)\n", e.Cookie)
		} else {
			fmt.Fprintf(&b, "- %s\n", e.Cookie)
		}
	}
	return b.String()
}
