package audit

import (
	"strings"
	"testing"

	"gdprauditor/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiffCookies(t *testing.T) {
	before := []model.CookieRecord{
		{Name: "session", Domain: ".example.test"},
		{Name: "_ga", Domain: ".example.test"},
	}
	after := []model.CookieRecord{
		{Name: "session", Domain: ".example.test"},
		{Name: "_ga", Domain: ".example.test"},
		{Name: "_fbp", Domain: ".example.test"},
	}

	entries := DiffCookies(before, after)
	require.Len(t, entries, 3)

	assert.True(t, entries[0].SetBeforeConsent)
	assert.True(t, entries[0].PresentAfterConsent)
	assert.True(t, entries[1].SetBeforeConsent)
	assert.False(t, entries[1].TriggeredByConsent)

	assert.Equal(t, "_fbp", entries[2].Cookie.Name)
	assert.True(t, entries[2].TriggeredByConsent)
	assert.True(t, entries[2].PresentAfterConsent)
	assert.False(t, entries[2].SetBeforeConsent)
}

func TestDiffCookiesVanishedBeforeCookie(t *testing.T) {
	before := []model.CookieRecord{
		{Name: "session", Domain: ".example.test"},
		{Name: "tmp", Domain: ".example.test"},
	}
	after := []model.CookieRecord{
		{Name: "session", Domain: ".example.test"},
	}

	entries := DiffCookies(before, after)
	require.Len(t, entries, 2)
	assert.True(t, entries[1].SetBeforeConsent)
	assert.False(t, entries[1].PresentAfterConsent)
}

func TestDiffCookiesSameNameDifferentDomain(t *testing.T) {
	before := []model.CookieRecord{{Name: "_ga", Domain: ".example.test"}}
	after := []model.CookieRecord{
		{Name: "_ga", Domain: ".example.test"},
		{Name: "_ga", Domain: ".tracker.test"},
	}

	entries := DiffCookies(before, after)
	require.Len(t, entries, 2)
	assert.True(t, entries[1].TriggeredByConsent)
	assert.Equal(t, ".tracker.test", entries[1].Cookie.Domain)
}

func TestDiffCookiesEmptyBefore(t *testing.T) {
	after := []model.CookieRecord{{Name: "consent", Domain: ".example.test"}}
	entries := DiffCookies(nil, after)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].TriggeredByConsent)
}

func TestRenderCookieInventory(t *testing.T) {
	entries := DiffCookies(
		[]model.CookieRecord{{Name: "session", Domain: ".example.test"}},
		[]model.CookieRecord{
			{Name: "session", Domain: ".example.test"},
			{Name: "_ga", Domain: ".example.test"},
		},
	)

	out := RenderCookieInventory(entries)

	assert.Contains(t, out, "=== COOKIES SET BEFORE CONSENT (VIOLATIONS) ===")
	assert.Contains(t, out, "=== COOKIES SET AFTER CONSENT (COMPLIANT) ===")

	beforeSection, afterSection, found := strings.Cut(out, "=== COOKIES SET AFTER CONSENT (COMPLIANT) ===")
	require.True(t, found)

	assert.Contains(t, beforeSection, "Total Count: 1")
	assert.Contains(t, beforeSection, "- Name: session, Domain: .example.test")
	assert.NotContains(t, beforeSection, "_ga")

	// The after section repeats pre-existing cookies and annotates new ones.
	assert.Contains(t, afterSection, "Total Count: 2")
	assert.Contains(t, afterSection, "- Name: session, Domain: .example.test\n")
	assert.Contains(t, afterSection, "- Name: _ga, Domain: .example.test (NEW - triggered by consent)")
}

func TestRenderCookieInventoryVanishedCookieStaysOutOfAfterSection(t *testing.T) {
	out := RenderCookieInventory(DiffCookies(
		[]model.CookieRecord{
			{Name: "session", Domain: ".example.test"},
			{Name: "tmp", Domain: ".example.test"},
		},
		[]model.CookieRecord{
			{Name: "session", Domain: ".example.test"},
			{Name: "_ga", Domain: ".example.test"},
		},
	))

	beforeSection, afterSection, found := strings.Cut(out, "=== COOKIES SET AFTER CONSENT (COMPLIANT) ===")
	require.True(t, found)

	// The vanished cookie remains a violation but is not in the after list.
	assert.Contains(t, beforeSection, "Total Count: 2")
	assert.Contains(t, beforeSection, "- Name: tmp, Domain: .example.test")
	assert.Contains(t, afterSection, "Total Count: 2")
	assert.NotContains(t, afterSection, "tmp")
	assert.Contains(t, afterSection, "- Name: _ga, Domain: .example.test (NEW - triggered by consent)")
}

func TestRenderCookieInventoryEmpty(t *testing.T) {
	out := RenderCookieInventory(nil)
	assert.Contains(t, out, "=== COOKIES SET BEFORE CONSENT (VIOLATIONS) ===\nTotal Count: 0")
	assert.Contains(t, out, "=== COOKIES SET AFTER CONSENT (COMPLIANT) ===\nTotal Count: 0")
}
