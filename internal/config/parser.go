package config

import (
	"encoding/json"
	"path/filepath"
)

func ParseConfig(byteConfig []byte) (*Config, error) {
	var cfg Config
	err := json.Unmarshal(byteConfig, &cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Chromedp.UserDataDir != "" {
		absPath, err := filepath.Abs(cfg.Chromedp.UserDataDir)
		if err != nil {
			return nil, err
		}
		cfg.Chromedp.UserDataDir = absPath
	}
	if cfg.Audit.MinResponses == 0 {
		cfg.Audit.MinResponses = 150
	}
	if cfg.Audit.TrafficWaitSeconds == 0 {
		cfg.Audit.TrafficWaitSeconds = 15
	}
	if cfg.Audit.ConsentSettleSeconds == 0 {
		cfg.Audit.ConsentSettleSeconds = 3
	}
	if cfg.Fetcher.TimeoutSeconds == 0 {
		cfg.Fetcher.TimeoutSeconds = 10
	}
	if cfg.Chromedp.BodyFetchConcurrency == 0 {
		cfg.Chromedp.BodyFetchConcurrency = 8
	}
	if cfg.Browser.Backend == "" {
		cfg.Browser.Backend = "chromedp"
	}
	return &cfg, nil
}
