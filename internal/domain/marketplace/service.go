package marketplace

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/semver/v3"

	"github.com/felixgeelhaar/pluginscout/internal/ports"
)

// Aggregation errors.
var (
	// ErrNoData signals that every configured source failed and no cache
	// exists, so the empty corpus is a degraded outcome rather than a
	// corpus with no matches.
	ErrNoData = errors.New("no marketplace data available")
)

// DefaultFreshnessWindow is how long a cached catalog stays fresh.
const DefaultFreshnessWindow = 60 * time.Minute

// ServiceConfig configures the catalog aggregation service.
type ServiceConfig struct {
	// CacheConfig configures the durable catalog cache
	CacheConfig CacheConfig
	// ClientConfig configures the catalog fetcher
	ClientConfig ClientConfig
	// FreshnessWindow is the maximum cache age before refresh
	FreshnessWindow time.Duration
	// Logger receives warnings about degraded sources
	Logger ports.Logger
}

// DefaultServiceConfig returns sensible defaults.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		CacheConfig:     DefaultCacheConfig(),
		ClientConfig:    DefaultClientConfig(),
		FreshnessWindow: DefaultFreshnessWindow,
	}
}

// Warning describes one source's degradation during an aggregation pass.
type Warning struct {
	Source  string
	Message string
}

// Corpus is the result of one aggregation pass. Records are ordered by
// source configuration order, then document order; identity
// (Name, Marketplace) appears at most once.
type Corpus struct {
	Records      []Record
	Warnings     []Warning
	TotalSources int
	// LoadedSources counts sources that contributed records, whether
	// from a fresh fetch or cache fallback.
	LoadedSources int
}

// Service aggregates catalogs from all configured sources.
type Service struct {
	config ServiceConfig
	client *Client
	cache  *Cache
	logger ports.Logger
}

// NewService creates a new aggregation service.
func NewService(config ServiceConfig) *Service {
	if config.FreshnessWindow <= 0 {
		config.FreshnessWindow = DefaultFreshnessWindow
	}
	logger := config.Logger
	if logger == nil {
		logger = nopLogger{}
	}
	return &Service{
		config: config,
		client: NewClient(config.ClientConfig),
		cache:  NewCache(config.CacheConfig),
		logger: logger,
	}
}

// Cache exposes the underlying cache store.
func (s *Service) Cache() *Cache {
	return s.cache
}

// Corpus builds the normalized corpus across all sources. Each source is
// handled independently: a stale or missing cache triggers a fetch, a
// failed fetch falls back to the last cached document, and a source with
// neither contributes nothing. A single unreachable source never fails
// the aggregation; only the all-sources-dark case returns ErrNoData.
func (s *Service) Corpus(ctx context.Context, sources []Source, forceRefresh bool) (*Corpus, error) {
	if len(sources) == 0 {
		return nil, ErrNoSources
	}

	corpus := &Corpus{TotalSources: len(sources)}
	index := make(map[string]int)

	for _, source := range sources {
		document := s.catalogFor(ctx, source, forceRefresh, corpus)
		if document == nil {
			continue
		}

		doc, err := ParseDocument(document)
		if err != nil {
			// The cache held bytes that no longer parse; treat like an
			// unreachable source.
			s.warn(ctx, corpus, source.Name(), fmt.Sprintf("could not parse catalog: %v", err))
			continue
		}

		corpus.LoadedSources++
		ownerName := doc.OwnerName()
		for _, entry := range doc.Plugins {
			rec := Normalize(entry, source, ownerName)
			if rec.Name == "" {
				continue
			}

			key := rec.Key()
			if at, dup := index[key]; dup {
				corpus.Records[at] = preferRecord(corpus.Records[at], rec)
				continue
			}
			index[key] = len(corpus.Records)
			corpus.Records = append(corpus.Records, rec)
		}
	}

	if corpus.LoadedSources == 0 {
		return nil, fmt.Errorf("%w: all %d sources unavailable", ErrNoData, corpus.TotalSources)
	}

	return corpus, nil
}

// catalogFor resolves one source's catalog document through the
// three-tier policy: fresh cache, fetch-and-store, cached fallback.
// Returns nil when the source contributes nothing this pass.
func (s *Service) catalogFor(ctx context.Context, source Source, forceRefresh bool, corpus *Corpus) []byte {
	name := source.Name()

	stale := forceRefresh
	if !stale {
		age, err := s.cache.Age(name)
		stale = err != nil || age > s.config.FreshnessWindow
	}

	if !stale {
		cached, err := s.cache.Read(name)
		if err == nil {
			return cached.Document
		}
		// Sidecar said fresh but the document was unreadable.
		stale = true
	}

	document, err := s.client.Fetch(ctx, source)
	if err == nil {
		if werr := s.cache.Write(name, document, time.Now(), source.BaseURL()); werr != nil {
			s.logger.Warn(ctx, "failed to cache catalog",
				ports.F("source", name), ports.F("error", werr.Error()))
		}
		return document
	}

	// Fetch failed; the last-known cached document is better than nothing.
	cached, cerr := s.cache.Read(name)
	if cerr == nil {
		s.warn(ctx, corpus, name, fmt.Sprintf("fetch failed, using cached data: %v", err))
		return cached.Document
	}

	s.warn(ctx, corpus, name, fmt.Sprintf("fetch failed, skipping source: %v", err))
	return nil
}

func (s *Service) warn(ctx context.Context, corpus *Corpus, source, message string) {
	corpus.Warnings = append(corpus.Warnings, Warning{Source: source, Message: message})
	s.logger.Warn(ctx, message, ports.F("source", source))
}

// preferRecord resolves duplicate (name, marketplace) entries within one
// document: the higher plugin version wins; missing or unparseable
// versions fall back to document order, later entry winning.
func preferRecord(existing, candidate Record) Record {
	ev, eerr := semver.NewVersion(existing.Version)
	cv, cerr := semver.NewVersion(candidate.Version)

	if eerr == nil && cerr == nil && ev.GreaterThan(cv) {
		return existing
	}
	return candidate
}

// nopLogger keeps the service loggable without an injected logger.
type nopLogger struct{}

func (nopLogger) Debug(context.Context, string, ...ports.Field) {}
func (nopLogger) Info(context.Context, string, ...ports.Field)  {}
func (nopLogger) Warn(context.Context, string, ...ports.Field)  {}
func (nopLogger) Error(context.Context, string, ...ports.Field) {}
func (n nopLogger) With(...ports.Field) ports.Logger            { return n }
