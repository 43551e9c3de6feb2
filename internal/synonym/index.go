// Package synonym builds and serves the bidirectional synonym index used
// for query expansion.
package synonym

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/meublerie/trouve/internal/cache"
	"github.com/meublerie/trouve/internal/models"
	"github.com/meublerie/trouve/internal/stemmer"
	"github.com/meublerie/trouve/internal/storage"
	"github.com/meublerie/trouve/pkg/utils"
)

// Weights used during expansion.
const (
	weightOriginal  = 1.0
	weightCanonical = 0.95 // exact reverse match: synonym -> its canonical
	weightDefault   = 0.9  // forward synonym with no stored weight
	weightStem      = 0.85
	stemDecay       = 0.9  // applied to the stem's own forward synonyms
	categoryBoost   = 1.15 // category hint matches the active filter
)

// Snapshot is the derived in-memory index, rebuilt on demand from the
// synonym store. Invariant: Reverse[s] = c implies s is in Forward[c].
type Snapshot struct {
	Forward      map[string][]string
	Reverse      map[string]string
	Weight       map[string]float64
	Language     map[string]string
	CategoryHint map[string]string
}

func emptySnapshot() *Snapshot {
	return &Snapshot{
		Forward:      map[string][]string{},
		Reverse:      map[string]string{},
		Weight:       map[string]float64{},
		Language:     map[string]string{},
		CategoryHint: map[string]string{},
	}
}

// Build constructs a snapshot from active entries. Inactive entries are
// skipped; the caller is responsible for locale filtering.
func Build(entries []models.SynonymEntry) *Snapshot {
	s := emptySnapshot()
	for _, e := range entries {
		if !e.Active {
			continue
		}
		canonical := normalize(e.Canonical)
		syn := normalize(e.Synonym)
		if canonical == "" || syn == "" {
			continue
		}
		s.Forward[canonical] = append(s.Forward[canonical], syn)
		s.Reverse[syn] = canonical
		w := e.Weight
		if w <= 0 || w > 1 {
			w = weightDefault
		}
		s.Weight[syn] = w
		if e.Language != "" {
			s.Language[syn] = e.Language
		}
		if e.CategoryHint != "" {
			s.CategoryHint[syn] = strings.ToLower(e.CategoryHint)
		}
	}
	return s
}

// Index serves locale-gated snapshots over a synonym store, cached with a
// TTL and explicitly invalidated on any synonym mutation.
type Index struct {
	store  storage.SynonymStore
	cache  *cache.Cache[*Snapshot]
	logger *zap.Logger
}

// NewIndex creates an Index backed by store, caching snapshots in c.
func NewIndex(store storage.SynonymStore, c *cache.Cache[*Snapshot], logger *zap.Logger) *Index {
	return &Index{store: store, cache: c, logger: logger}
}

// Snapshot returns the snapshot for locale, building it on a miss. When the
// store is unreachable it returns an empty snapshot: search degrades to
// no-expansion, it never errors.
func (i *Index) Snapshot(ctx context.Context, locale string) *Snapshot {
	snap, err := i.cache.Get("synonyms:"+locale, func() (*Snapshot, error) {
		entries, err := i.store.ListActiveSynonyms(ctx, locale)
		if err != nil {
			return nil, err
		}
		return Build(entries), nil
	})
	if err != nil {
		i.logger.Warn("synonym store unavailable, searching without expansion", zap.Error(err))
		return emptySnapshot()
	}
	return snap
}

// Invalidate evicts all cached snapshots. Called after synonym mutations.
func (i *Index) Invalidate() {
	i.cache.Invalidate()
}

// Expand returns the expansion of term: the term itself, its forward
// synonyms, its canonical and siblings when the term is itself a synonym,
// and its stem with the stem's synonyms. Terms are returned in discovery
// order with the original first; weights merge highest-wins.
func (i *Index) Expand(ctx context.Context, term, locale, categoryFilter string) ([]string, map[string]float64) {
	term = normalize(term)
	terms := []string{term}
	weights := map[string]float64{term: weightOriginal}
	if term == "" {
		return terms, weights
	}

	snap := i.Snapshot(ctx, locale)
	filter := strings.ToLower(strings.TrimSpace(categoryFilter))

	add := func(t string, w float64) {
		if t == "" {
			return
		}
		if existing, ok := weights[t]; ok {
			// Never downgrade an already-stronger weight.
			if w > existing {
				weights[t] = w
			}
			return
		}
		weights[t] = w
		terms = append(terms, t)
	}

	boosted := func(syn string, w float64) float64 {
		if filter == "" {
			return w
		}
		hint := snap.CategoryHint[syn]
		if hint == "" {
			return w
		}
		if strings.Contains(hint, filter) || strings.Contains(filter, hint) {
			w = utils.Clamp01(w * categoryBoost)
		}
		return w
	}

	// Forward: the term is a canonical.
	for _, syn := range snap.Forward[term] {
		w := snap.Weight[syn]
		if w == 0 {
			w = weightDefault
		}
		add(syn, boosted(syn, w))
	}

	// Reverse: the term is itself a synonym; pull in its canonical and the
	// canonical's other synonyms.
	if canonical, ok := snap.Reverse[term]; ok {
		add(canonical, weightCanonical)
		for _, sibling := range snap.Forward[canonical] {
			if sibling == term {
				continue
			}
			w := snap.Weight[sibling]
			if w == 0 {
				w = weightDefault
			}
			add(sibling, boosted(sibling, w))
		}
	}

	// Stemming: include the root form and its forward synonyms, discounted.
	if stem := stemmer.Stem(term); stem != term {
		add(stem, weightStem)
		for _, syn := range snap.Forward[stem] {
			w := snap.Weight[syn]
			if w == 0 {
				w = weightDefault
			}
			add(syn, w*stemDecay)
		}
	}

	return terms, weights
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
