package chrome

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"gdprauditor/internal/config"
	"gdprauditor/internal/domain/model"
	"gdprauditor/internal/infra/crawler/recorder"
	"gdprauditor/internal/infra/crawler/types"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

type chromedpBrowser struct {
	requestCache  sync.Map
	buffer        *recorder.Buffer
	gate          *fetchGate
	logger        *zap.Logger
	allocCtx      context.Context
	allocCtxFuc   context.CancelFunc
	pageCtx       context.Context
	pageCtxFuc    context.CancelFunc
	timeoutCtxFuc context.CancelFunc
}

// InitChromedpBrowser launches a headless Chrome and wires its network event
// stream into the capture buffer for the lifetime of the session.
func InitChromedpBrowser(ctx context.Context, cfg *config.Config, buffer *recorder.Buffer, logger *zap.Logger) Browser {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Chromedp.Headless),
		chromedp.Flag("disable-blink-features", cfg.Chromedp.DisableBlinkFeatures),
		chromedp.Flag("incognito", cfg.Chromedp.Incognito),
		chromedp.Flag("disable-dev-shm-usage", cfg.Chromedp.DisableDevShmUsage),
		chromedp.Flag("no-sandbox", cfg.Chromedp.NoSandbox),
		chromedp.Flag("window-size", cfg.Chromedp.WindowSize),
		chromedp.UserDataDir(cfg.Chromedp.UserDataDir),
		chromedp.UserAgent(cfg.Chromedp.UserAgent),
	)
	timeoutCtx, cancelTimeout := context.WithTimeout(ctx, time.Duration(cfg.Chromedp.LifeTime)*time.Second)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(timeoutCtx, opts...)
	pageCtx, cancelPage := chromedp.NewContext(allocCtx)

	cb := &chromedpBrowser{
		buffer:        buffer,
		gate:          newFetchGate(cfg.Chromedp.BodyFetchConcurrency),
		logger:        logger,
		allocCtx:      allocCtx,
		allocCtxFuc:   cancelAlloc,
		pageCtx:       pageCtx,
		pageCtxFuc:    cancelPage,
		timeoutCtxFuc: cancelTimeout,
	}
	cb.setupNetworkListener()
	return cb
}

func (cb *chromedpBrowser) Close() {
	cb.pageCtxFuc()
	cb.allocCtxFuc()
	cb.timeoutCtxFuc()
}

// setupNetworkListener subscribes to the session's response stream once. The
// response body is only retrievable after loading finished, so the URL is
// cached by request ID until the matching EventLoadingFinished arrives.
func (cb *chromedpBrowser) setupNetworkListener() {
	chromedp.ListenTarget(cb.pageCtx, func(ev any) {
		switch ev := ev.(type) {
		case *network.EventResponseReceived:
			cb.requestCache.Store(ev.RequestID, ev.Response.URL)

		case *network.EventLoadingFinished:
			if cachedURL, ok := cb.requestCache.Load(ev.RequestID); ok {
				cb.requestCache.Delete(ev.RequestID)
				if urlStr, ok := cachedURL.(string); ok {
					go cb.fetchResponseBody(cb.gate.generation(), ev.RequestID, urlStr)
				}
			}
		}
	})
}

func (cb *chromedpBrowser) fetchResponseBody(gen int64, requestID network.RequestID, url string) {
	if !cb.gate.acquire(gen) {
		return
	}
	defer cb.gate.release()

	c := chromedp.FromContext(cb.pageCtx)
	ctx := cdp.WithExecutor(cb.pageCtx, c.Target)
	body, err := network.GetResponseBody(requestID).Do(ctx)
	if err != nil {
		// Bodies of redirects and evicted entries are gone by the time we
		// ask; this only shrinks the capture, it never fails the visit.
		cb.logger.Debug("response body unavailable",
			zap.String("request_id", string(requestID)), zap.Error(err))
		return
	}
	cb.buffer.Append(types.CapturedResponse{URL: url, Body: body})
}

func (cb *chromedpBrowser) Navigate(ctx context.Context, url string) error {
	err := chromedp.Run(cb.pageCtx,
		network.Enable(),
		chromedp.Navigate(url),
	)
	if err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	return nil
}

func (cb *chromedpBrowser) ResetSession(ctx context.Context) error {
	// Drain first: once this returns, no body fetch spawned for the previous
	// domain can append anymore, so the caller's buffer clear is safe.
	cb.gate.drain()
	err := chromedp.Run(cb.pageCtx,
		network.ClearBrowserCookies(),
		chromedp.Evaluate("("+clearWebStorageFn+")()", nil),
	)
	if err != nil {
		return fmt.Errorf("session reset failed: %w", err)
	}
	return nil
}

func (cb *chromedpBrowser) Cookies(ctx context.Context) ([]model.CookieRecord, error) {
	var cookies []*network.Cookie
	err := chromedp.Run(cb.pageCtx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			cookies, err = network.GetCookies().Do(ctx)
			return err
		}),
	)
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

func (cb *chromedpBrowser) ClickFirstVisible(ctx context.Context, xpath string) (bool, error) {
	var clicked bool
	expr := fmt.Sprintf("(%s)(%s)", clickVisibleByXPathFn, strconv.Quote(xpath))
	if err := chromedp.Run(cb.pageCtx, chromedp.Evaluate(expr, &clicked)); err != nil {
		return false, fmt.Errorf("click evaluation failed: %w", err)
	}
	return clicked, nil
}
