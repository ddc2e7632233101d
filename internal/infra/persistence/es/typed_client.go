package es

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"time"

	"gdprauditor/internal/config"
	"gdprauditor/internal/domain/model"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/elastic/go-elasticsearch/v9/typedapi/core/search"
	"github.com/elastic/go-elasticsearch/v9/typedapi/some"
	"github.com/elastic/go-elasticsearch/v9/typedapi/types"
)

type esLedger struct {
	client *elasticsearch.TypedClient
	index  string
}

func InitLedger(cfg *config.Config) (Ledger, error) {
	typedClient, err := elasticsearch.NewTypedClient(elasticsearch.Config{
		Username: cfg.Elasticsearch.Username,
		Password: cfg.Elasticsearch.Password,
		Addresses: []string{
			cfg.Elasticsearch.Address,
		},
		Transport: &http.Transport{
			MaxIdleConnsPerHost:   10,
			ResponseHeaderTimeout: 30 * time.Second,
			IdleConnTimeout:       90 * time.Second,
			// Skip TLS verification (development setups only)
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Elasticsearch client: %s", err)
	}
	return &esLedger{client: typedClient, index: cfg.Elasticsearch.Index}, nil
}

func (l *esLedger) EnsureIndex(ctx context.Context) error {
	exists, err := l.client.Indices.Exists(l.index).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to check index existence in es: %s", err)
	}
	if exists {
		return nil
	}
	mapping := &types.TypeMapping{
		Properties: map[string]types.Property{
			"hostname":   types.NewKeywordProperty(),
			"results":    types.NewTextProperty(),
			"audited_at": types.NewDateProperty(),
		},
	}
	if _, err := l.client.Indices.Create(l.index).Mappings(mapping).Do(ctx); err != nil {
		return fmt.Errorf("failed to create index in es: %s", err)
	}
	return nil
}

// IsProcessed reports whether any ledger row exists for the hostname. Exact
// match on the keyword field; side-effect free.
func (l *esLedger) IsProcessed(ctx context.Context, hostname string) (bool, error) {
	resp, err := l.client.Search().Index(l.index).Request(&search.Request{
		Size: some.Int(1),
		Query: &types.Query{
			Term: map[string]types.TermQuery{
				"hostname": {Value: hostname},
			},
		},
	}).Do(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to query ledger for %s: %w", hostname, err)
	}
	return len(resp.Hits.Hits) > 0, nil
}

func (l *esLedger) Persist(ctx context.Context, record model.AuditRecord) error {
	_, err := l.client.Index(l.index).Document(record).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to persist audit result for %s: %w", record.Hostname, err)
	}
	return nil
}
