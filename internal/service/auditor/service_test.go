package auditor

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"gdprauditor/internal/audit"
	"gdprauditor/internal/config"
	"gdprauditor/internal/domain/model"
	"gdprauditor/internal/infra/crawler/recorder"
	"gdprauditor/internal/infra/crawler/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeBrowser replays canned page bodies into the shared capture buffer on
// Navigate, the way the real network listener does, and serves cookie
// snapshots from a queue so before/after consent differ.
type fakeBrowser struct {
	buffer       *recorder.Buffer
	pageBodies   [][]byte
	cookieQueue  [][]model.CookieRecord
	clickXPath   string // first locator reported as clicked, "" clicks nothing
	navigated    []string
	resets       int
	clickedPaths []string
}

func (b *fakeBrowser) Navigate(_ context.Context, url string) error {
	b.navigated = append(b.navigated, url)
	for _, body := range b.pageBodies {
		b.buffer.Append(types.CapturedResponse{URL: url, Body: body})
	}
	return nil
}

func (b *fakeBrowser) ResetSession(context.Context) error {
	b.resets++
	return nil
}

func (b *fakeBrowser) Cookies(context.Context) ([]model.CookieRecord, error) {
	if len(b.cookieQueue) == 0 {
		return nil, nil
	}
	next := b.cookieQueue[0]
	b.cookieQueue = b.cookieQueue[1:]
	return next, nil
}

func (b *fakeBrowser) ClickFirstVisible(_ context.Context, xpath string) (bool, error) {
	b.clickedPaths = append(b.clickedPaths, xpath)
	return xpath == b.clickXPath, nil
}

func (b *fakeBrowser) Close() {}

type fakeLedger struct {
	processed  map[string]bool
	checkErr   error
	persisted  []model.AuditRecord
	persistErr error
}

func (l *fakeLedger) EnsureIndex(context.Context) error { return nil }

func (l *fakeLedger) IsProcessed(_ context.Context, hostname string) (bool, error) {
	if l.checkErr != nil {
		return false, l.checkErr
	}
	return l.processed[hostname], nil
}

func (l *fakeLedger) Persist(_ context.Context, record model.AuditRecord) error {
	if l.persistErr != nil {
		return l.persistErr
	}
	if l.processed == nil {
		l.processed = map[string]bool{}
	}
	l.processed[record.Hostname] = true
	l.persisted = append(l.persisted, record)
	return nil
}

type fakeFetcher struct {
	pages   map[string]string
	fetched []string
}

func (f *fakeFetcher) Fetch(rawURL string) string {
	f.fetched = append(f.fetched, rawURL)
	return f.pages[rawURL]
}

type fakeAnalyst struct {
	result  string
	err     error
	prompts []string
}

func (a *fakeAnalyst) Invoke(_ context.Context, prompt string) (string, error) {
	a.prompts = append(a.prompts, prompt)
	if a.err != nil {
		return "", a.err
	}
	return a.result, nil
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Audit.MinResponses = 1
	cfg.Audit.TrafficWaitSeconds = 1
	cfg.Audit.ConsentSettleSeconds = 0
	return cfg
}

type fixture struct {
	service Service
	browser *fakeBrowser
	buffer  *recorder.Buffer
	ledger  *fakeLedger
	fetcher *fakeFetcher
	analyst *fakeAnalyst
}

func newFixture(browser *fakeBrowser, ledger *fakeLedger, fetcher *fakeFetcher, analyst *fakeAnalyst) *fixture {
	buffer := recorder.InitBuffer()
	browser.buffer = buffer
	svc := InitAuditorService(browser, buffer, ledger, fetcher, analyst,
		audit.DefaultCatalog(), testConfig(), zap.NewNop())
	return &fixture{
		service: svc,
		browser: browser,
		buffer:  buffer,
		ledger:  ledger,
		fetcher: fetcher,
		analyst: analyst,
	}
}

func TestAuditDomainEndToEnd(t *testing.T) {
	browser := &fakeBrowser{
		pageBodies: [][]byte{
			[]byte(`<a href="https://shop.test/cookie-policy">cookies</a>`),
			[]byte(`<a href="https://shop.test/privacy">privacy</a>`),
		},
		cookieQueue: [][]model.CookieRecord{
			{{Name: "_ga", Domain: ".shop.test"}},
			{{Name: "_ga", Domain: ".shop.test"}, {Name: "_fbp", Domain: ".shop.test"}},
		},
		clickXPath: audit.DefaultCatalog().ConsentLocators[0],
	}
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://shop.test/cookie-policy": "<html>cookie doc</html>",
		"https://shop.test/privacy":       "<html>privacy doc</html>",
	}}
	ledger := &fakeLedger{}
	analyst := &fakeAnalyst{result: `{"scorecard":{"total_score":12}}`}
	fx := newFixture(browser, ledger, fetcher, analyst)

	err := fx.service.AuditDomain(context.Background(), "https://www.shop.test")
	require.NoError(t, err)

	require.Len(t, analyst.prompts, 1)
	prompt := analyst.prompts[0]
	assert.Contains(t, prompt, "Name: _ga, Domain: .shop.test")
	assert.Contains(t, prompt, "Name: _fbp, Domain: .shop.test (NEW - triggered by consent)")
	assert.Equal(t, 2, strings.Count(prompt, "Privacy Policy HTML file: [<html>privacy doc</html>]"))
	assert.Equal(t, 2, strings.Count(prompt, "Cookie Policy HTML file: [<html>cookie doc</html>]"))

	require.Len(t, ledger.persisted, 1)
	record := ledger.persisted[0]
	assert.Equal(t, "www.shop.test", record.Hostname)
	assert.Equal(t, analyst.result, record.Results)
	assert.WithinDuration(t, time.Now().UTC(), record.AuditedAt, time.Minute)

	assert.Equal(t, []string{"https://www.shop.test"}, browser.navigated)
	assert.Equal(t, 1, browser.resets)
	assert.ElementsMatch(t, []string{
		"https://shop.test/cookie-policy",
		"https://shop.test/privacy",
	}, fetcher.fetched)
}

func TestAuditDomainSkipsAlreadyProcessed(t *testing.T) {
	browser := &fakeBrowser{}
	ledger := &fakeLedger{processed: map[string]bool{"done.test": true}}
	fx := newFixture(browser, ledger, &fakeFetcher{}, &fakeAnalyst{})

	err := fx.service.AuditDomain(context.Background(), "https://done.test")
	require.NoError(t, err)
	assert.Empty(t, browser.navigated)
	assert.Empty(t, ledger.persisted)
}

func TestAuditDomainDedupCheckFailureSkips(t *testing.T) {
	browser := &fakeBrowser{}
	ledger := &fakeLedger{checkErr: errors.New("search unavailable")}
	fx := newFixture(browser, ledger, &fakeFetcher{}, &fakeAnalyst{})

	err := fx.service.AuditDomain(context.Background(), "https://flaky.test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dedup check failed")
	assert.Empty(t, browser.navigated)
}

func TestAuditDomainSkipsWhenNoCandidates(t *testing.T) {
	browser := &fakeBrowser{
		pageBodies: [][]byte{[]byte(`<a href="https://empty.test/about">about</a>`)},
	}
	ledger := &fakeLedger{}
	analyst := &fakeAnalyst{result: "unused"}
	fx := newFixture(browser, ledger, &fakeFetcher{}, analyst)

	err := fx.service.AuditDomain(context.Background(), "https://empty.test")
	require.NoError(t, err)
	assert.Empty(t, analyst.prompts)
	assert.Empty(t, ledger.persisted)
}

func TestAuditDomainAnalysisFailure(t *testing.T) {
	browser := &fakeBrowser{
		pageBodies: [][]byte{[]byte(`<a href="https://err.test/privacy">privacy</a>`)},
	}
	ledger := &fakeLedger{}
	analyst := &fakeAnalyst{err: errors.New("model unreachable")}
	fx := newFixture(browser, ledger, &fakeFetcher{}, analyst)

	err := fx.service.AuditDomain(context.Background(), "https://err.test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "analysis invocation failed")
	assert.Empty(t, ledger.persisted)
}

func TestAuditDomainPersistFailureLeavesUnmarked(t *testing.T) {
	browser := &fakeBrowser{
		pageBodies: [][]byte{[]byte(`<a href="https://retry.test/privacy">privacy</a>`)},
	}
	ledger := &fakeLedger{persistErr: errors.New("index write rejected")}
	analyst := &fakeAnalyst{result: "verdict"}
	fx := newFixture(browser, ledger, &fakeFetcher{}, analyst)

	err := fx.service.AuditDomain(context.Background(), "https://retry.test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "persist failed")
	assert.False(t, ledger.processed["retry.test"])
}

func TestAuditDomainInvalidDomain(t *testing.T) {
	fx := newFixture(&fakeBrowser{}, &fakeLedger{}, &fakeFetcher{}, &fakeAnalyst{})
	err := fx.service.AuditDomain(context.Background(), "exa mple")
	require.Error(t, err)
}

func TestAuditDomainResetsBufferBetweenDomains(t *testing.T) {
	browser := &fakeBrowser{
		pageBodies: [][]byte{[]byte(`<a href="https://a.test/privacy">p</a>`)},
	}
	ledger := &fakeLedger{}
	analyst := &fakeAnalyst{result: "r"}
	fx := newFixture(browser, ledger, &fakeFetcher{}, analyst)

	require.NoError(t, fx.service.AuditDomain(context.Background(), "https://a.test"))
	require.Len(t, analyst.prompts, 1)

	// Second domain sees only its own traffic: the a.test policy link must
	// not leak into b.test's candidate set.
	browser.pageBodies = [][]byte{[]byte(`<a href="https://b.test/cookies">c</a>`)}
	require.NoError(t, fx.service.AuditDomain(context.Background(), "https://b.test"))
	require.Len(t, analyst.prompts, 2)
	assert.NotContains(t, analyst.prompts[1], "a.test/privacy")
}

func TestRunContinuesPastFailures(t *testing.T) {
	browser := &fakeBrowser{
		pageBodies: [][]byte{[]byte(`<a href="https://ok.test/privacy">p</a>`)},
	}
	ledger := &fakeLedger{}
	analyst := &fakeAnalyst{result: "r"}
	fx := newFixture(browser, ledger, &fakeFetcher{}, analyst)

	fx.service.Run(context.Background(), []string{"exa mple", "https://ok.test"})
	require.Len(t, ledger.persisted, 1)
	assert.Equal(t, "ok.test", ledger.persisted[0].Hostname)
}

func TestConsentAutomatorFirstMatchOnly(t *testing.T) {
	buffer := recorder.InitBuffer()
	browser := &fakeBrowser{buffer: buffer, clickXPath: "//button[2]"}
	automator := InitConsentAutomator([]string{"//button[1]", "//button[2]", "//button[3]"}, nil, 0, zap.NewNop())

	state := automator.Accept(context.Background(), browser)
	assert.Equal(t, ConsentClicked, state)
	// Stops at the first successful click, later locators are never tried.
	assert.Equal(t, []string{"//button[1]", "//button[2]"}, browser.clickedPaths)
}

func TestConsentAutomatorExhausted(t *testing.T) {
	buffer := recorder.InitBuffer()
	browser := &fakeBrowser{buffer: buffer}
	automator := InitConsentAutomator([]string{"//button[1]"}, nil, 0, zap.NewNop())

	state := automator.Accept(context.Background(), browser)
	assert.Equal(t, ConsentExhausted, state)
}

func TestConsentStateString(t *testing.T) {
	assert.Equal(t, "idle", ConsentIdle.String())
	assert.Equal(t, "clicked", ConsentClicked.String())
	assert.Equal(t, "exhausted", ConsentExhausted.String())
}
