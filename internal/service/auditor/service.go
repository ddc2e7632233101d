package auditor

import (
	"context"
	"fmt"
	"time"

	"gdprauditor/internal/audit"
	"gdprauditor/internal/config"
	"gdprauditor/internal/domain/model"
	"gdprauditor/internal/infra/crawler/chrome"
	"gdprauditor/internal/infra/crawler/collector"
	"gdprauditor/internal/infra/crawler/recorder"
	"gdprauditor/internal/infra/llm"
	"gdprauditor/internal/infra/persistence/es"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Service runs the per-domain audit pipeline: capture the browsing session's
// traffic, automate consent, diff the cookie timeline, mine and classify
// policy URLs, fetch the documents and delegate the compliance analysis.
// Domains are processed strictly sequentially; the browser session and the
// capture buffer are shared state that must not interleave across domains.
type Service interface {
	Run(ctx context.Context, domains []string)
	AuditDomain(ctx context.Context, rawDomain string) error
}

type auditorService struct {
	browser     chrome.Browser
	buffer      *recorder.Buffer
	ledger      es.Ledger
	fetcher     collector.Fetcher
	analyst     llm.Analyst
	classifier  *audit.Classifier
	consent     *ConsentAutomator
	minTraffic  int
	trafficWait time.Duration
	logger      *zap.Logger
}

func InitAuditorService(
	browser chrome.Browser,
	buffer *recorder.Buffer,
	ledger es.Ledger,
	fetcher collector.Fetcher,
	analyst llm.Analyst,
	catalog audit.Catalog,
	cfg *config.Config,
	logger *zap.Logger,
) Service {
	return &auditorService{
		browser:    browser,
		buffer:     buffer,
		ledger:     ledger,
		fetcher:    fetcher,
		analyst:    analyst,
		classifier: audit.InitClassifier(catalog),
		consent: InitConsentAutomator(
			catalog.ConsentLocators,
			catalog.RejectLocators,
			time.Duration(cfg.Audit.ConsentSettleSeconds)*time.Second,
			logger,
		),
		minTraffic:  cfg.Audit.MinResponses,
		trafficWait: time.Duration(cfg.Audit.TrafficWaitSeconds) * time.Second,
		logger:      logger,
	}
}

// Run audits every domain in order. A failed domain is logged and skipped;
// it never aborts the rest of the run.
func (s *auditorService) Run(ctx context.Context, domains []string) {
	for _, raw := range domains {
		s.logger.Info("processing domain", zap.String("domain", raw))
		if err := s.AuditDomain(ctx, raw); err != nil {
			s.logger.Warn("domain skipped", zap.String("domain", raw), zap.Error(err))
		}
	}
}

func (s *auditorService) AuditDomain(ctx context.Context, rawDomain string) error {
	domain, err := model.ParseDomain(rawDomain)
	if err != nil {
		return err
	}

	// Idempotency gate. A dedup-check failure also skips: reprocessing on an
	// unreadable ledger risks duplicate rows.
	processed, err := s.ledger.IsProcessed(ctx, domain.Host)
	if err != nil {
		return fmt.Errorf("dedup check failed: %w", err)
	}
	if processed {
		s.logger.Info("domain already audited, skipping", zap.String("host", domain.Host))
		return nil
	}

	// Clean session state for this domain. Failure degrades, it does not
	// skip: an unclean session only pollutes the before-consent snapshot.
	if err := s.browser.ResetSession(ctx); err != nil {
		s.logger.Warn("could not clear browser state", zap.String("host", domain.Host), zap.Error(err))
	}
	// Safe to clear here: ResetSession drains the previous domain's in-flight
	// body fetches before returning, even when the CDP calls fail.
	s.buffer.Reset()

	if err := s.browser.Navigate(ctx, domain.Raw); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}

	if !s.buffer.WaitForThreshold(ctx, s.minTraffic, s.trafficWait) {
		s.logger.Warn("timeout waiting for network activity, proceeding with partial capture",
			zap.String("host", domain.Host),
			zap.Int("captured", s.buffer.Len()),
			zap.Int("wanted", s.minTraffic))
	}

	before := s.cookieSnapshot(ctx, domain, "before consent")
	consentState := s.consent.Accept(ctx, s.browser)
	after := s.cookieSnapshot(ctx, domain, "after consent")
	s.logger.Info("cookie snapshots captured",
		zap.String("host", domain.Host),
		zap.Int("before", len(before)),
		zap.Int("after", len(after)),
		zap.String("consent", consentState.String()))

	timeline := audit.DiffCookies(before, after)
	inventory := audit.RenderCookieInventory(timeline)

	urls := audit.MineLinks(s.buffer.Snapshot())
	candidates := s.classifier.Classify(domain, urls)
	selection, ok := audit.SelectTargets(domain, candidates)
	if !ok {
		s.logger.Info("no cookie or privacy URL candidates, skipping domain",
			zap.String("host", domain.Host),
			zap.Int("mined_urls", len(urls)))
		return nil
	}
	s.logger.Info("policy targets selected",
		zap.String("host", domain.Host),
		zap.String("cookie_policy", selection.CookiePolicyURL),
		zap.String("privacy_policy", selection.PrivacyPolicyURL))

	// Both fetches degrade independently: an empty document weakens the
	// analysis, it does not block it.
	var cookiesHTML, privacyHTML string
	var g errgroup.Group
	g.Go(func() error {
		cookiesHTML = s.fetcher.Fetch(selection.CookiePolicyURL)
		return nil
	})
	g.Go(func() error {
		privacyHTML = s.fetcher.Fetch(selection.PrivacyPolicyURL)
		return nil
	})
	_ = g.Wait()
	if cookiesHTML == "" {
		s.logger.Warn("fetched cookie policy content is empty", zap.String("host", domain.Host))
	}
	if privacyHTML == "" {
		s.logger.Warn("fetched privacy policy content is empty", zap.String("host", domain.Host))
	}

	request := audit.ComposeAuditRequest(privacyHTML, cookiesHTML, inventory)
	result, err := s.analyst.Invoke(ctx, request.Prompt())
	if err != nil {
		return fmt.Errorf("analysis invocation failed: %w", err)
	}

	record := model.AuditRecord{
		Hostname:  domain.Host,
		Results:   result,
		AuditedAt: time.Now().UTC(),
	}
	if err := s.ledger.Persist(ctx, record); err != nil {
		// The result is logged so nothing is lost, but the domain stays
		// unmarked and will be retried on a future run.
		s.logger.Error("persist failed, audit result not recorded",
			zap.String("host", domain.Host),
			zap.String("results", result))
		return fmt.Errorf("persist failed: %w", err)
	}
	s.logger.Info("audit result persisted", zap.String("host", domain.Host))
	return nil
}

func (s *auditorService) cookieSnapshot(ctx context.Context, domain model.Domain, stage string) []model.CookieRecord {
	cookies, err := s.browser.Cookies(ctx)
	if err != nil {
		s.logger.Warn("cookie snapshot failed",
			zap.String("host", domain.Host),
			zap.String("stage", stage),
			zap.Error(err))
		return nil
	}
	return cookies
}
