// Package analytics records search outcomes without ever blocking or
// failing the search request that produced them.
package analytics

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/meublerie/trouve/internal/models"
	"github.com/meublerie/trouve/internal/storage"
)

// maxQueryLength truncates stored query text.
const maxQueryLength = 255

// Recorder logs searches to the analytics store. Every write is detached
// from the caller with its own short timeout; failures are logged and
// swallowed so search never degrades because of analytics.
type Recorder struct {
	store   storage.AnalyticsStore
	enabled bool
	timeout time.Duration
	logger  *zap.Logger

	// wg tracks in-flight writes, so tests and shutdown can drain them.
	wg sync.WaitGroup

	now func() time.Time
}

// NewRecorder creates a Recorder. The enabled flag is read once and holds
// for the recorder's lifetime.
func NewRecorder(store storage.AnalyticsStore, enabled bool, timeout time.Duration, logger *zap.Logger) *Recorder {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Recorder{
		store:   store,
		enabled: enabled,
		timeout: timeout,
		logger:  logger,
		now:     time.Now,
	}
}

// Record logs one search outcome. Fire-and-forget: it returns immediately
// and the write happens on a detached goroutine with its own deadline.
func (r *Recorder) Record(rec *models.SearchRecord) {
	if !r.enabled || r.store == nil {
		return
	}

	rec.Query = truncate(strings.TrimSpace(rec.Query), maxQueryLength)
	rec.QueryNormalized = strings.ToLower(rec.Query)
	rec.CreatedAt = r.now()

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()

		if err := r.store.AppendSearch(ctx, rec); err != nil {
			r.logger.Debug("analytics append skipped", zap.Error(err))
			return
		}
		date := rec.CreatedAt.Format("2006-01-02")
		if err := r.store.UpsertDailyAggregate(ctx, date, rec.QueryNormalized, rec.ResultsCount); err != nil {
			r.logger.Debug("analytics aggregate skipped", zap.Error(err))
		}
	}()
}

// HashIP returns sha256(ip + date) in hex, the only form in which a client
// address is ever stored. Empty input stays empty.
func (r *Recorder) HashIP(ip string) string {
	if ip == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(ip + r.now().Format("2006-01-02")))
	return hex.EncodeToString(sum[:])
}

// Drain waits for all in-flight writes to finish.
func (r *Recorder) Drain() {
	r.wg.Wait()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
