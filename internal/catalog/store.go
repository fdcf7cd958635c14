// Package catalog loads the versioned Data Dragon catalog (champions, items,
// rune trees, summoner spells) and resolves free-text names into catalog
// entries and asset URLs.
//
// A Store moves through create → Load → ready. Load is single-flight and
// publishes an immutable Snapshot; every resolver is fail-soft and returns an
// empty string (or a placeholder for champion icons) on a miss.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"lolmath/internal/logging"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Data document kinds, also used as cache keys.
const (
	kindChampions = "champion"
	kindItems     = "item"
	kindRunes     = "runesReforged"
	kindSummoners = "summoner"
)

// Config configures a Store.
type Config struct {
	BaseURL      string
	Locale       string
	Version      string // optional pin; skips versions.json
	FetchTimeout time.Duration
	MaxAttempts  int
	RetryBackoff time.Duration
	AvatarURL    string
}

// DefaultConfig returns the public Data Dragon settings.
func DefaultConfig() Config {
	return Config{
		BaseURL:      "https://ddragon.leagueoflegends.com",
		Locale:       "en_US",
		FetchTimeout: 15 * time.Second,
		MaxAttempts:  3,
		RetryBackoff: 500 * time.Millisecond,
		AvatarURL:    "https://ui-avatars.com/api/",
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.BaseURL == "" {
		c.BaseURL = d.BaseURL
	}
	if c.Locale == "" {
		c.Locale = d.Locale
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = d.FetchTimeout
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 1
	}
	if c.RetryBackoff <= 0 {
		c.RetryBackoff = d.RetryBackoff
	}
	if c.AvatarURL == "" {
		c.AvatarURL = d.AvatarURL
	}
	return c
}

// fetchBudget bounds one fetch including every retry and backoff.
func (c Config) fetchBudget() time.Duration {
	budget := time.Duration(c.MaxAttempts) * c.FetchTimeout
	backoff := c.RetryBackoff
	for i := 1; i < c.MaxAttempts; i++ {
		budget += backoff
		backoff *= 2
	}
	return budget
}

// Cache persists raw data documents keyed by version and kind.
type Cache interface {
	Lookup(version, kind string) ([]byte, bool)
	Save(version, kind string, body []byte) error
}

// Option configures a Store.
type Option func(*Store)

// WithHTTPClient overrides the HTTP client used for all fetches.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Store) {
		if c != nil {
			s.client = c
		}
	}
}

// WithCache enables a document cache.
func WithCache(c Cache) Option {
	return func(s *Store) { s.cache = c }
}

// Clock supplies the retry backoff timer.
type Clock interface {
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// WithClock overrides the clock used between retry attempts.
func WithClock(c Clock) Option {
	return func(s *Store) {
		if c != nil {
			s.clock = c
		}
	}
}

// Snapshot is one immutable, fully indexed catalog revision.
type Snapshot struct {
	Version   string
	Champions map[string]Champion
	Items     map[string]Item
	Runes     []RuneTree
	Summoners map[string]SummonerSpell

	championsByName map[string]string
	itemsByName     map[string]string
	itemOrder       []string
	summonersByName map[string]string
}

// Store owns the catalog snapshot and the per-champion ability cache.
type Store struct {
	cfg    Config
	client *http.Client
	cache  Cache
	clock  Clock

	group     singleflight.Group
	snap      atomic.Pointer[Snapshot]
	abilities sync.Map // champion id -> *AbilityDetail
}

// New creates an empty Store. Call Load before resolving names.
func New(cfg Config, opts ...Option) *Store {
	s := &Store{
		cfg:    cfg.withDefaults(),
		client: &http.Client{},
		clock:  realClock{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IsLoaded reports whether a snapshot has been published.
func (s *Store) IsLoaded() bool {
	return s.snap.Load() != nil
}

// Snapshot returns the published snapshot, or nil before a successful Load.
func (s *Store) Snapshot() *Snapshot {
	return s.snap.Load()
}

// Version returns the loaded version token, or "" before Load.
func (s *Store) Version() string {
	if snap := s.snap.Load(); snap != nil {
		return snap.Version
	}
	return ""
}

// Stats summarizes the current snapshot.
func (s *Store) Stats() Stats {
	snap := s.snap.Load()
	if snap == nil {
		return Stats{}
	}
	return Stats{
		Loaded:    true,
		Version:   snap.Version,
		Champions: len(snap.Champions),
		Items:     len(snap.Items),
		RuneTrees: len(snap.Runes),
		Summoners: len(snap.Summoners),
	}
}

// Load fetches the current version and the four catalogs, then publishes the
// snapshot. It returns immediately once a load has succeeded, and concurrent
// callers share a single in-flight load. On failure it returns a *LoadError
// and the Store stays empty so the caller may retry.
//
// The shared load is detached from any one caller: it runs on ctx's values
// under its own deadline, and a caller whose ctx ends stops waiting with
// ctx.Err() while the others keep theirs.
func (s *Store) Load(ctx context.Context) error {
	if s.IsLoaded() {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	ch := s.group.DoChan("load", func() (interface{}, error) {
		if s.IsLoaded() {
			return nil, nil
		}
		timer := logging.StartTimer(logging.CategoryCatalog, "catalog load")
		defer timer.StopWithInfo()

		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*s.cfg.fetchBudget())
		defer cancel()

		snap, err := s.load(lctx)
		if err != nil {
			logging.CatalogError("%v", err)
			return nil, err
		}
		s.snap.Store(snap)
		logging.Catalog("catalog %s loaded: %d champions, %d items, %d rune trees, %d summoner spells",
			snap.Version, len(snap.Champions), len(snap.Items), len(snap.Runes), len(snap.Summoners))
		return nil, nil
	})

	select {
	case <-ctx.Done():
		logging.CatalogDebug("stopped waiting for catalog load: %v", ctx.Err())
		return ctx.Err()
	case res := <-ch:
		if res.Shared {
			logging.CatalogDebug("joined in-flight catalog load")
		}
		return res.Err
	}
}

func (s *Store) load(ctx context.Context) (*Snapshot, error) {
	version := s.cfg.Version
	if version == "" {
		v, err := s.fetchVersion(ctx)
		if err != nil {
			return nil, &LoadError{Stage: StageVersion, Err: err}
		}
		version = v
	}
	logging.Catalog("Data Dragon version: %s", version)

	snap := &Snapshot{Version: version}

	// Each goroutine writes a distinct snapshot field; Wait orders them
	// before the snapshot is indexed and published.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := s.fetchDocument(gctx, version, kindChampions, func(body []byte) (err error) {
			snap.Champions, err = decodeData[Champion](body)
			return err
		})
		return stageErr(StageChampions, err)
	})
	g.Go(func() error {
		err := s.fetchDocument(gctx, version, kindItems, func(body []byte) (err error) {
			snap.Items, err = decodeData[Item](body)
			return err
		})
		return stageErr(StageItems, err)
	})
	g.Go(func() error {
		err := s.fetchDocument(gctx, version, kindRunes, func(body []byte) error {
			var trees []RuneTree
			if err := json.Unmarshal(body, &trees); err != nil {
				return err
			}
			if len(trees) == 0 {
				return errors.New("no rune trees")
			}
			snap.Runes = trees
			return nil
		})
		return stageErr(StageRunes, err)
	})
	g.Go(func() error {
		err := s.fetchDocument(gctx, version, kindSummoners, func(body []byte) (err error) {
			snap.Summoners, err = decodeData[SummonerSpell](body)
			return err
		})
		return stageErr(StageSummoners, err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	snap.buildIndices()
	return snap, nil
}

func stageErr(stage string, err error) error {
	if err == nil {
		return nil
	}
	return &LoadError{Stage: stage, Err: err}
}

type dataFile[T any] struct {
	Version string       `json:"version"`
	Data    map[string]T `json:"data"`
}

func decodeData[T any](body []byte) (map[string]T, error) {
	var f dataFile[T]
	if err := json.Unmarshal(body, &f); err != nil {
		return nil, err
	}
	if len(f.Data) == 0 {
		return nil, errors.New("document has no entries")
	}
	return f.Data, nil
}

// buildIndices derives the lowercase name indices. Entries are visited in
// ascending identifier order so duplicate display names resolve to the
// lowest identifier.
func (snap *Snapshot) buildIndices() {
	snap.championsByName = make(map[string]string, len(snap.Champions))
	for _, id := range sortedKeys(snap.Champions) {
		c := snap.Champions[id]
		if c.ID == "" {
			c.ID = id
			snap.Champions[id] = c
		}
		indexName(snap.championsByName, c.Name, id)
	}

	snap.itemOrder = sortedKeys(snap.Items)
	snap.itemsByName = make(map[string]string, len(snap.Items))
	for _, id := range snap.itemOrder {
		it := snap.Items[id]
		it.ID = id
		snap.Items[id] = it
		indexName(snap.itemsByName, it.Name, id)
	}

	snap.summonersByName = make(map[string]string, len(snap.Summoners))
	for _, id := range sortedKeys(snap.Summoners) {
		sp := snap.Summoners[id]
		if sp.ID == "" {
			sp.ID = id
			snap.Summoners[id] = sp
		}
		indexName(snap.summonersByName, sp.Name, id)
	}
}

func indexName(index map[string]string, name, id string) {
	key := normalize(name)
	if key == "" {
		return
	}
	if _, taken := index[key]; !taken {
		index[key] = id
	}
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return compareIDs(keys[i], keys[j]) < 0 })
	return keys
}
