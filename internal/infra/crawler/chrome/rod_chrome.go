package chrome

import (
	"context"
	"encoding/base64"
	"fmt"

	"gdprauditor/internal/config"
	"gdprauditor/internal/domain/model"
	"gdprauditor/internal/infra/crawler/recorder"
	"gdprauditor/internal/infra/crawler/types"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"go.uber.org/zap"
)

// rodBrowser is the alternate session backend. The stealth page keeps consent
// walls that gate on headless fingerprints from hiding their banner.
type rodBrowser struct {
	browser *rod.Browser
	page    *rod.Page
	buffer  *recorder.Buffer
	logger  *zap.Logger
}

func InitRodBrowser(cfg *config.Config, buffer *recorder.Buffer, logger *zap.Logger) (Browser, error) {
	l := launcher.New().Headless(cfg.Rod.Headless)
	if cfg.Rod.NoSandbox {
		l = l.NoSandbox(true)
	}
	if cfg.Rod.Bin != "" {
		l = l.Bin(cfg.Rod.Bin)
	}
	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	page, err := stealth.Page(browser)
	if err != nil {
		browser.Close()
		return nil, fmt.Errorf("failed to open stealth page: %w", err)
	}
	if err := (proto.NetworkEnable{}).Call(page); err != nil {
		browser.Close()
		return nil, fmt.Errorf("failed to enable network domain: %w", err)
	}

	rb := &rodBrowser{
		browser: browser,
		page:    page,
		buffer:  buffer,
		logger:  logger,
	}
	go rb.page.EachEvent(rb.onResponseReceived)()
	return rb, nil
}

func (rb *rodBrowser) onResponseReceived(e *proto.NetworkResponseReceived) {
	res, err := proto.NetworkGetResponseBody{RequestID: e.RequestID}.Call(rb.page)
	if err != nil {
		rb.logger.Debug("response body unavailable",
			zap.String("request_id", string(e.RequestID)), zap.Error(err))
		return
	}
	body := []byte(res.Body)
	if res.Base64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(res.Body)
		if err != nil {
			return
		}
		body = decoded
	}
	rb.buffer.Append(types.CapturedResponse{URL: e.Response.URL, Body: body})
}

func (rb *rodBrowser) Close() {
	_ = rb.browser.Close()
}

func (rb *rodBrowser) Navigate(ctx context.Context, url string) error {
	if err := rb.page.Context(ctx).Navigate(url); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	// Load completion is best effort; the traffic waiter owns the real wait.
	_ = rb.page.WaitLoad()
	return nil
}

func (rb *rodBrowser) ResetSession(ctx context.Context) error {
	if err := (proto.NetworkClearBrowserCookies{}).Call(rb.page); err != nil {
		return fmt.Errorf("session reset failed: %w", err)
	}
	if _, err := rb.page.Eval("(" + clearWebStorageFn + ")"); err != nil {
		return fmt.Errorf("session reset failed: %w", err)
	}
	return nil
}

func (rb *rodBrowser) Cookies(ctx context.Context) ([]model.CookieRecord, error) {
	cookies, err := rb.page.Cookies(nil)
	if err != nil {
		return nil, fmt.Errorf("cookie snapshot failed: %w", err)
	}
	records := make([]model.CookieRecord, 0, len(cookies))
	for _, c := range cookies {
		records = append(records, model.CookieRecord{
			Name:     c.Name,
			Domain:   c.Domain,
			HTTPOnly: c.HTTPOnly,
			Secure:   c.Secure,
			Path:     c.Path,
		})
	}
	return records, nil
}

func (rb *rodBrowser) ClickFirstVisible(ctx context.Context, xpath string) (bool, error) {
	res, err := rb.page.Eval("("+clickVisibleByXPathFn+")", xpath)
	if err != nil {
		return false, fmt.Errorf("click evaluation failed: %w", err)
	}
	return res.Value.Bool(), nil
}
