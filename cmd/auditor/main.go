package main

import (
	"bufio"
	"context"
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gdprauditor/internal/audit"
	"gdprauditor/internal/config"
	"gdprauditor/internal/infra/crawler/chrome"
	"gdprauditor/internal/infra/crawler/collector"
	"gdprauditor/internal/infra/crawler/recorder"
	"gdprauditor/internal/infra/llm"
	"gdprauditor/internal/infra/persistence/es"
	"gdprauditor/internal/service/auditor"

	"go.uber.org/zap"
)

//go:embed appconfig/appconfig.json
var appConfig []byte

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg, err := config.ParseConfig(appConfig)
	if err != nil {
		logger.Fatal("failed to parse config", zap.Error(err))
	}
	if password := os.Getenv("ELASTICSEARCH_PASSWORD"); password != "" {
		cfg.Elasticsearch.Password = password
	}

	domains, err := readDomains(cfg.Audit.DomainsFile)
	if err != nil {
		logger.Fatal("failed to read domains file",
			zap.String("path", cfg.Audit.DomainsFile), zap.Error(err))
	}
	if len(domains) == 0 {
		logger.Info("no domains found, please add at least one URL",
			zap.String("path", cfg.Audit.DomainsFile))
		return
	}

	ctx := context.Background()

	ledger, err := es.InitLedger(cfg)
	if err != nil {
		logger.Fatal("failed to initialize ledger", zap.Error(err))
	}
	if err := ledger.EnsureIndex(ctx); err != nil {
		logger.Fatal("failed to ensure ledger index", zap.Error(err))
	}

	analyst, err := llm.InitAnalyst(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to initialize analyst", zap.Error(err))
	}

	buffer := recorder.InitBuffer()
	browser, err := chrome.InitBrowser(ctx, cfg, buffer, logger)
	if err != nil {
		logger.Fatal("failed to initialize browser", zap.Error(err))
	}
	defer browser.Close()

	fetcher := collector.InitCollyFetcher(cfg, logger)

	service := auditor.InitAuditorService(
		browser, buffer, ledger, fetcher, analyst,
		audit.DefaultCatalog(), cfg, logger,
	)
	service.Run(ctx, domains)
}

// readDomains loads the audit list: one absolute URL per line, blank lines
// and #-comments ignored.
func readDomains(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var domains []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		domains = append(domains, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return domains, nil
}
