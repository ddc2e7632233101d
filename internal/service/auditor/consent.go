package auditor

import (
	"context"
	"time"

	"gdprauditor/internal/infra/crawler/chrome"

	"go.uber.org/zap"
)

type ConsentState int

const (
	ConsentIdle ConsentState = iota
	ConsentSearching
	ConsentClicked
	ConsentExhausted
)

func (s ConsentState) String() string {
	switch s {
	case ConsentIdle:
		return "idle"
	case ConsentSearching:
		return "searching"
	case ConsentClicked:
		return "clicked"
	case ConsentExhausted:
		return "exhausted"
	}
	return "unknown"
}

// ConsentAutomator walks an ordered locator list and triggers the first
// visible, interactable match. At most one control is ever clicked per
// domain; after a successful trigger it waits a fixed settle interval for
// cookie-setting scripts and stops. Exhausting the list is not an error.
type ConsentAutomator struct {
	acceptLocators []string
	rejectLocators []string
	settle         time.Duration
	logger         *zap.Logger
}

func InitConsentAutomator(acceptLocators, rejectLocators []string, settle time.Duration, logger *zap.Logger) *ConsentAutomator {
	return &ConsentAutomator{
		acceptLocators: acceptLocators,
		rejectLocators: rejectLocators,
		settle:         settle,
		logger:         logger,
	}
}

// Accept seeks an "accept"-type control. This is the default pipeline path.
func (a *ConsentAutomator) Accept(ctx context.Context, browser chrome.Browser) ConsentState {
	return a.run(ctx, browser, a.acceptLocators, "accept")
}

// Reject seeks a "refuse"-type control with the same first-match semantics.
// Not invoked by the default orchestration; available to callers that audit
// the reject path instead.
func (a *ConsentAutomator) Reject(ctx context.Context, browser chrome.Browser) ConsentState {
	return a.run(ctx, browser, a.rejectLocators, "reject")
}

func (a *ConsentAutomator) run(ctx context.Context, browser chrome.Browser, locators []string, kind string) ConsentState {
	for _, xpath := range locators {
		clicked, err := browser.ClickFirstVisible(ctx, xpath)
		if err != nil {
			a.logger.Debug("consent locator evaluation failed",
				zap.String("kind", kind), zap.String("xpath", xpath), zap.Error(err))
			continue
		}
		if clicked {
			a.logger.Info("consent control triggered",
				zap.String("kind", kind), zap.String("xpath", xpath))
			time.Sleep(a.settle)
			return ConsentClicked
		}
	}
	a.logger.Info("no interactable consent control found", zap.String("kind", kind))
	return ConsentExhausted
}
