package chrome

import (
	"context"
	"fmt"

	"gdprauditor/internal/config"
	"gdprauditor/internal/domain/model"
	"gdprauditor/internal/infra/crawler/recorder"

	"go.uber.org/zap"
)

// Browser is one live browsing session. The audit pipeline holds a single
// session for its whole run; Navigate/ResetSession/Cookies/ClickFirstVisible
// are called strictly sequentially per domain while the network listener set
// up at construction keeps appending captured responses in the background.
type Browser interface {
	Navigate(ctx context.Context, url string) error
	ResetSession(ctx context.Context) error
	Cookies(ctx context.Context) ([]model.CookieRecord, error)
	ClickFirstVisible(ctx context.Context, xpath string) (bool, error)
	Close()
}

// InitBrowser selects the session backend from config. chromedp is the
// default; rod trades the bounded body-fetch workers for a stealth page that
// survives bot-gated consent walls.
func InitBrowser(ctx context.Context, cfg *config.Config, buffer *recorder.Buffer, logger *zap.Logger) (Browser, error) {
	switch cfg.Browser.Backend {
	case "", "chromedp":
		return InitChromedpBrowser(ctx, cfg, buffer, logger), nil
	case "rod":
		return InitRodBrowser(cfg, buffer, logger)
	default:
		return nil, fmt.Errorf("unknown browser backend %q", cfg.Browser.Backend)
	}
}

// clickVisibleByXPathFn clicks the first visible, enabled element matching
// the XPath and reports whether anything was clicked. Clicking through JS
// avoids interception by banner overlays.
const clickVisibleByXPathFn = `function(xp) {
	const snap = document.evaluate(xp, document, null, XPathResult.ORDERED_NODE_SNAPSHOT_TYPE, null);
	for (let i = 0; i < snap.snapshotLength; i++) {
		const el = snap.snapshotItem(i);
		const style = window.getComputedStyle(el);
		const visible = el.offsetParent !== null && style.visibility !== 'hidden' && style.display !== 'none';
		if (visible && !el.disabled) {
			el.click();
			return true;
		}
	}
	return false;
}`

// clearWebStorageFn wipes localStorage and sessionStorage; access can throw
// on opaque origins, so failures are swallowed in the page.
const clearWebStorageFn = `function() {
	try { window.localStorage.clear(); window.sessionStorage.clear(); } catch (e) {}
	return true;
}`
