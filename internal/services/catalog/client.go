package catalog

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"TransitScan/internal/domain/models"
	"TransitScan/pkg/cache"
	"TransitScan/pkg/config"
	xhttp "TransitScan/pkg/http"
)

// HTTPTargetCatalog resolves target metadata from an external catalog
// service over HTTP. Lookups are cached to keep repeated fits from
// hammering the catalog.
type HTTPTargetCatalog struct {
	baseURL string
	client  *xhttp.Client
	cache   cache.Service
	ttl     time.Duration
}

func NewHTTPTargetCatalog(cfg *config.Config) *HTTPTargetCatalog {
	timeout := cfg.Catalog.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &HTTPTargetCatalog{
		baseURL: cfg.Catalog.URL,
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout)),
		cache:   cache.NewMemoryCache(),
		ttl:     10 * time.Minute,
	}
}

// SetCache swaps the lookup cache, e.g. for a Redis-backed one.
func (c *HTTPTargetCatalog) SetCache(s cache.Service) {
	if s != nil {
		c.cache = s
	}
}

// Enabled reports whether a catalog endpoint is configured.
func (c *HTTPTargetCatalog) Enabled() bool { return c.baseURL != "" }

func (c *HTTPTargetCatalog) Lookup(ctx context.Context, target string) (models.TargetInfo, error) {
	var info models.TargetInfo
	if !c.Enabled() {
		return models.TargetInfo{Target: target}, nil
	}

	key := cache.GenerateKey("catalog", cache.HashKey(target))
	var cached models.TargetInfo
	if err := c.cache.Get(ctx, key, &cached); err == nil && cached.Target != "" {
		return cached, nil
	}

	err := c.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/targets/" + url.PathEscape(target),
	}, &info)
	if err != nil {
		return models.TargetInfo{}, fmt.Errorf("catalog lookup %s: %w", target, err)
	}
	if info.Target == "" {
		info.Target = target
	}
	info.Known = true

	_ = c.cache.Set(ctx, key, info, c.ttl)
	return info, nil
}
