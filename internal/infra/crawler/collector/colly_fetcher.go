package collector

import (
	"strings"
	"time"

	"gdprauditor/internal/config"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"
)

type collyFetcher struct {
	base    *colly.Collector
	timeout time.Duration
	logger  *zap.Logger
}

func InitCollyFetcher(cfg *config.Config, logger *zap.Logger) Fetcher {
	c := colly.NewCollector(
		colly.UserAgent(cfg.Fetcher.UserAgent),
		colly.AllowURLRevisit(),
		colly.IgnoreRobotsTxt(),
	)
	timeout := time.Duration(cfg.Fetcher.TimeoutSeconds) * time.Second
	c.SetRequestTimeout(timeout)
	return &collyFetcher{base: c, timeout: timeout, logger: logger}
}

func (f *collyFetcher) Fetch(rawURL string) string {
	target := CleanTargetURL(rawURL)
	if target == "" {
		f.logger.Warn("no fetchable URL in target string", zap.String("raw", rawURL))
		return ""
	}

	// Clone per fetch: callbacks must not accumulate across documents.
	c := f.base.Clone()
	c.SetRequestTimeout(f.timeout)

	var body []byte
	c.OnResponse(func(r *colly.Response) {
		body = r.Body
	})
	c.OnError(func(r *colly.Response, err error) {
		f.logger.Warn("fetch failed",
			zap.String("url", target),
			zap.Int("status", r.StatusCode),
			zap.Error(err))
	})

	if err := c.Visit(target); err != nil {
		f.logger.Warn("fetch failed", zap.String("url", target), zap.Error(err))
		return ""
	}
	c.Wait()
	return string(body)
}

// CleanTargetURL recovers an absolute URL from a possibly decorated target
// string, e.g. a markdown link fragment. Strings already starting with
// "http" pass through untouched.
func CleanTargetURL(raw string) string {
	s := raw
	if strings.HasPrefix(s, "http") {
		return s
	}
	idx := strings.Index(s, "http")
	if idx < 0 {
		return ""
	}
	s = s[idx:]
	if i := strings.IndexByte(s, ' '); i > 0 {
		s = s[:i]
	}
	if i := strings.IndexByte(s, ')'); i > 0 {
		s = s[:i]
	}
	return s
}
