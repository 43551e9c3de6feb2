// Package discovery mines search analytics for vocabulary gaps and proposes
// new synonym entries. It is an offline, advisory job: it never runs inline
// with a user-facing search.
package discovery

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/meublerie/trouve/internal/fuzzy"
	"github.com/meublerie/trouve/internal/models"
	"github.com/meublerie/trouve/internal/storage"
	"github.com/meublerie/trouve/internal/synonym"
	"github.com/meublerie/trouve/pkg/utils"
)

// Suggestion sources.
const (
	SourceZeroResult   = "zero_result"
	SourceCoOccurrence = "co_occurrence"
)

// Mining thresholds.
const (
	minSearches       = 3   // searches before a query is a candidate
	zeroRateThreshold = 0.8 // zero-result rate for pattern 1
	minOccurrences    = 3   // pair repeats for pattern 2
	surfaceConfidence = 0.5 // minimum confidence worth surfacing

	// DefaultMinConfidence is the auto-creation bar.
	DefaultMinConfidence = 0.7

	sessionWindow = 2 * time.Minute
)

// Suggestion is one proposed synonym mapping with its evidence.
type Suggestion struct {
	Canonical   string  `json:"canonical"`
	Synonym     string  `json:"synonym"`
	Confidence  float64 `json:"confidence"`
	Source      string  `json:"source"`
	Occurrences int     `json:"occurrences"`
}

// Discovery mines the analytics store and creates synonyms through the
// synonym store, invalidating the index after each creation.
type Discovery struct {
	analytics storage.AnalyticsStore
	synonyms  storage.SynonymStore
	index     *synonym.Index
	matcher   *fuzzy.Matcher
	logger    *zap.Logger
}

// New creates a Discovery job.
func New(analytics storage.AnalyticsStore, synonyms storage.SynonymStore, index *synonym.Index, matcher *fuzzy.Matcher, logger *zap.Logger) *Discovery {
	return &Discovery{
		analytics: analytics,
		synonyms:  synonyms,
		index:     index,
		matcher:   matcher,
		logger:    logger,
	}
}

// Analyze mines the last lookbackDays of analytics and returns synonym
// suggestions from both patterns, strongest first within each pattern.
func (d *Discovery) Analyze(ctx context.Context, lookbackDays int) ([]Suggestion, error) {
	if lookbackDays <= 0 {
		lookbackDays = 30
	}
	since := time.Now().AddDate(0, 0, -lookbackDays)

	var suggestions []Suggestion

	zeroResult, err := d.analyzeZeroResults(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("zero-result mining failed: %w", err)
	}
	suggestions = append(suggestions, zeroResult...)

	pairs, err := d.analyzeSessionPairs(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("session pair mining failed: %w", err)
	}
	suggestions = append(suggestions, pairs...)

	d.logger.Info("synonym discovery complete",
		zap.Int("lookback_days", lookbackDays),
		zap.Int("suggestions", len(suggestions)))
	return suggestions, nil
}

// analyzeZeroResults proposes a fuzzy vocabulary match for queries that
// almost always return nothing.
func (d *Discovery) analyzeZeroResults(ctx context.Context, since time.Time) ([]Suggestion, error) {
	stats, err := d.analytics.ZeroResultQueries(ctx, since, minSearches)
	if err != nil {
		return nil, err
	}

	vocabulary, err := d.vocabulary(ctx)
	if err != nil {
		return nil, err
	}

	var suggestions []Suggestion
	for _, stat := range stats {
		if stat.ZeroResultRate < zeroRateThreshold {
			continue
		}
		matches := d.matcher.FindMatches(stat.QueryNormalized, vocabulary, 1)
		if len(matches) == 0 {
			continue
		}
		best := matches[0]
		suggestions = append(suggestions, Suggestion{
			Canonical:   best.Term,
			Synonym:     stat.QueryNormalized,
			Confidence:  best.Score,
			Source:      SourceZeroResult,
			Occurrences: stat.SearchCount,
		})
	}
	return suggestions, nil
}

// analyzeSessionPairs proposes mappings from query pairs the same session
// issued within the window, weighted toward pairs whose first query failed.
func (d *Discovery) analyzeSessionPairs(ctx context.Context, since time.Time) ([]Suggestion, error) {
	pairs, err := d.analytics.SessionPairs(ctx, since, sessionWindow, minOccurrences)
	if err != nil {
		return nil, err
	}

	var suggestions []Suggestion
	for _, pair := range pairs {
		confidence := utils.Clamp01(float64(pair.Occurrences) / 10.0 * (0.5 + 0.5*pair.FirstQueryZeroRate))
		if confidence < surfaceConfidence {
			continue
		}
		suggestions = append(suggestions, Suggestion{
			Canonical:   pair.SecondQuery,
			Synonym:     pair.FirstQuery,
			Confidence:  confidence,
			Source:      SourceCoOccurrence,
			Occurrences: pair.Occurrences,
		})
	}
	return suggestions, nil
}

// AutoCreate commits suggestions at or above minConfidence. Existing
// canonical/synonym pairs are skipped silently, so reruns are idempotent.
// Each successful creation invalidates the synonym index cache.
func (d *Discovery) AutoCreate(ctx context.Context, suggestions []Suggestion, minConfidence float64) (created, skipped int, err error) {
	if minConfidence <= 0 {
		minConfidence = DefaultMinConfidence
	}

	existing, err := d.existingPairs(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("listing existing synonyms failed: %w", err)
	}

	for _, sg := range suggestions {
		if sg.Confidence < minConfidence || sg.Canonical == "" || sg.Synonym == "" || sg.Canonical == sg.Synonym {
			skipped++
			continue
		}
		key := sg.Canonical + "\x00" + sg.Synonym
		if _, ok := existing[key]; ok {
			skipped++
			continue
		}

		entry := &models.SynonymEntry{
			Canonical: sg.Canonical,
			Synonym:   sg.Synonym,
			Weight:    sg.Confidence,
			Language:  models.LangEN,
		}
		if _, cerr := d.synonyms.CreateSynonym(ctx, entry); cerr != nil {
			d.logger.Warn("auto-create synonym failed",
				zap.String("canonical", sg.Canonical),
				zap.String("synonym", sg.Synonym),
				zap.Error(cerr))
			skipped++
			continue
		}
		existing[key] = struct{}{}
		created++
		d.logger.Info("synonym auto-created",
			zap.String("canonical", sg.Canonical),
			zap.String("synonym", sg.Synonym),
			zap.Float64("confidence", sg.Confidence),
			zap.String("source", sg.Source))
	}

	if created > 0 {
		d.index.Invalidate()
	}
	return created, skipped, nil
}

// vocabulary is the set of known canonical and synonym terms, the target
// space for fuzzy matching of failed queries.
func (d *Discovery) vocabulary(ctx context.Context) ([]string, error) {
	entries, err := d.synonyms.ListActiveSynonyms(ctx, models.LangFR)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(entries)*2)
	var vocab []string
	for _, e := range entries {
		for _, term := range []string{e.Canonical, e.Synonym} {
			if _, ok := seen[term]; ok {
				continue
			}
			seen[term] = struct{}{}
			vocab = append(vocab, term)
		}
	}
	return vocab, nil
}

func (d *Discovery) existingPairs(ctx context.Context) (map[string]struct{}, error) {
	entries, err := d.synonyms.ListActiveSynonyms(ctx, models.LangFR)
	if err != nil {
		return nil, err
	}
	pairs := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		pairs[e.Canonical+"\x00"+e.Synonym] = struct{}{}
	}
	return pairs, nil
}
