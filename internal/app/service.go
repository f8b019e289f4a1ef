// Package service runs the scoring pipeline: it resolves the war, fetches
// chains and hits, builds the report, writes it to every sink and keeps it
// for the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/warcut/internal/adapters/repository"
	"github.com/okian/warcut/internal/domain/cut"
	"github.com/okian/warcut/internal/domain/gap"
	"github.com/okian/warcut/internal/domain/model"
	"github.com/okian/warcut/internal/domain/report"
	"github.com/okian/warcut/internal/domain/types"
	"github.com/okian/warcut/pkg/logger"
	"github.com/okian/warcut/pkg/metrics"
)

// Source provides the raw records of one war.
type Source interface {
	LatestWar(ctx context.Context) (model.War, error)
	Chains(ctx context.Context, from, to int64) ([]model.Chain, error)
	Actions(ctx context.Context, chains []model.Chain, grace time.Duration) ([]model.Action, error)
}

// Sink receives a finished report.
type Sink interface {
	Name() string
	Write(ctx context.Context, r *report.Report) error
}

// Service implements the scoring run and the API read dependencies.
type Service struct {
	mu sync.RWMutex

	source   Source
	sinks    []Sink
	store    repository.Store
	war      *model.War
	grace    time.Duration
	newRunID func() string
	logger   logger.Logger

	// State of the latest run
	runs        int
	lastRunID   string
	lastRunAt   time.Time
	lastErr     error
	lastElapsed time.Duration
}

// New constructs a Service reading from source.
func New(source Source, opts ...Option) (*Service, error) {
	if source == nil {
		return nil, ErrNoSource
	}
	s := &Service{
		source:   source,
		store:    repository.NewMemoryStore(),
		grace:    time.Minute,
		newRunID: func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	return s, nil
}

// Run performs one scoring run. Nothing is written when the report cannot
// be built; the error then wraps report.ErrNoChains, report.ErrNoActions or
// cut.ErrIntegrity.
func (s *Service) Run(ctx context.Context) (*report.Report, error) {
	runID := s.newRunID()
	start := time.Now()

	rep, err := s.run(ctx, runID)

	elapsed := time.Since(start)
	metrics.RecordRun(outcome(err), float64(elapsed.Milliseconds()))

	s.mu.Lock()
	s.runs++
	s.lastRunID = runID
	s.lastRunAt = start.UTC()
	s.lastErr = err
	s.lastElapsed = elapsed
	s.mu.Unlock()

	if err != nil {
		s.logger.Error(ctx, "scoring run failed",
			logger.String("run", runID),
			logger.Error(err),
		)
		return nil, err
	}
	s.logger.Info(ctx, "scoring run finished",
		logger.String("run", runID),
		logger.Int("actors", len(rep.Summary.Actors)),
		logger.Int("hits", rep.Summary.Totals.Hits),
		logger.Float64("group_cut", rep.Summary.Group.Cut),
		logger.Int64("elapsed_ms", elapsed.Milliseconds()),
	)
	return rep, nil
}

func (s *Service) run(ctx context.Context, runID string) (*report.Report, error) {
	war, err := s.resolveWar(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve war: %w", err)
	}
	s.logger.Info(ctx, "scoring war",
		logger.String("run", runID),
		logger.String("war", war.ID),
		logger.String("opposing", war.OpposingFaction),
		logger.String("from", model.FormatTimestamp(war.StartedAt)),
		logger.String("to", model.FormatTimestamp(war.EndedAt)),
	)

	chains, err := s.source.Chains(ctx, war.StartedAt, war.EndedAt)
	if err != nil {
		return nil, fmt.Errorf("fetch chains: %w", err)
	}
	if len(chains) == 0 {
		return nil, report.ErrNoChains
	}

	actions, err := s.source.Actions(ctx, chains, s.grace)
	if err != nil {
		return nil, fmt.Errorf("fetch attacks: %w", err)
	}
	s.logger.Info(ctx, "records fetched",
		logger.String("run", runID),
		logger.Int("chains", len(chains)),
		logger.Int("attacks", len(actions)),
	)

	rep, err := report.Build(report.Params{War: war}, chains, actions)
	if err != nil {
		return nil, err
	}
	for _, d := range rep.Diagnostics {
		s.logger.Warn(ctx, "gap out of range", logger.String("run", runID), logger.String("detail", d))
	}

	var sinkErrs []error
	for _, sink := range s.sinks {
		if err := sink.Write(ctx, rep); err != nil {
			metrics.RecordSinkWrite(sink.Name(), "error")
			sinkErrs = append(sinkErrs, fmt.Errorf("%w: %s: %w", ErrSink, sink.Name(), err))
			continue
		}
		metrics.RecordSinkWrite(sink.Name(), "ok")
	}

	if err := s.store.Put(ctx, runID, rep); err != nil {
		return nil, fmt.Errorf("store report: %w", err)
	}
	metrics.RecordReport(
		len(rep.Actions), rep.Excluded, len(rep.Summary.Actors),
		len(rep.Penalties), len(rep.Diagnostics), rep.Summary.Group.Cut, time.Now().Unix(),
	)

	if len(sinkErrs) > 0 {
		return nil, errors.Join(sinkErrs...)
	}
	return rep, nil
}

func (s *Service) resolveWar(ctx context.Context) (model.War, error) {
	if s.war != nil {
		return *s.war, nil
	}
	return s.source.LatestWar(ctx)
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, cut.ErrIntegrity):
		return metrics.OutcomeIntegrity
	case errors.Is(err, report.ErrNoChains), errors.Is(err, report.ErrNoActions):
		return metrics.OutcomeNoData
	default:
		return metrics.OutcomeFailed
	}
}

// TopN returns the top N leaderboard entries of the latest report.
func (s *Service) TopN(ctx context.Context, n int) ([]types.Entry, error) {
	entries, err := s.store.TopN(ctx, n)
	if err != nil {
		return nil, err
	}

	out := make([]types.Entry, len(entries))
	for i, e := range entries {
		out[i] = toEntry(e)
	}
	return out, nil
}

// Rank returns the leaderboard row of one actor.
func (s *Service) Rank(ctx context.Context, actorID string) (types.Entry, error) {
	e, err := s.store.Rank(ctx, actorID)
	if err != nil {
		return types.Entry{}, err
	}
	return toEntry(e), nil
}

func toEntry(e repository.Entry) types.Entry {
	return types.Entry{Rank: e.Rank, Actor: e.ActorID, Hits: e.Hits, Points: e.Points, Cut: e.Cut}
}

// Summary returns the distributed summary of the latest report.
func (s *Service) Summary(ctx context.Context) (types.Summary, error) {
	snap, err := s.store.Latest(ctx)
	if err != nil {
		return types.Summary{}, err
	}
	t := snap.Report.Summary

	out := types.Summary{
		RunID:       snap.RunID,
		WarID:       snap.Report.War.ID,
		Opposing:    snap.Report.War.OpposingFaction,
		Actors:      make([]types.SummaryRow, 0, len(t.Actors)),
		GroupPoints: t.Group.Points,
		GroupCut:    t.Group.Cut,
		TotalHits:   t.Totals.Hits,
		TotalPoints: t.Totals.Points,
	}
	for _, row := range t.Actors {
		buckets := make(map[string]string, len(gap.All))
		for i, b := range gap.All {
			buckets[b.String()] = row.Buckets[i].String()
		}
		out.Actors = append(out.Actors, types.SummaryRow{
			Actor:    row.ActorID,
			Hits:     row.Hits,
			Buckets:  buckets,
			FirstTen: row.FirstTen.String(),
			Base:     row.Points.Base,
			Penalty:  row.Points.Penalty,
			Bonus:    row.Points.Bonus,
			Points:   row.Points.Total,
			Cut:      row.Cut,
		})
	}
	return out, nil
}

// Penalties returns the milestone penalties of the latest report.
func (s *Service) Penalties(ctx context.Context) ([]types.Penalty, error) {
	snap, err := s.store.Latest(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]types.Penalty, 0, len(snap.Report.Penalties))
	for _, p := range snap.Report.Penalties {
		out = append(out, types.Penalty{
			ChainID:      p.ChainID,
			Actor:        p.ActorID,
			ChainCounter: p.ChainCounter,
			HitNumber:    p.HitNumber,
			Timestamp:    p.Timestamp,
			Time:         model.FormatTimestamp(p.Timestamp),
		})
	}
	return out, nil
}

// Diagnostics returns the data-quality messages of the latest report.
func (s *Service) Diagnostics(ctx context.Context) ([]string, error) {
	snap, err := s.store.Latest(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(snap.Report.Diagnostics))
	copy(out, snap.Report.Diagnostics)
	return out, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"runs":        s.runs,
		"sinks":       len(s.sinks),
		"gracePeriod": s.grace.String(),
		"actors":      s.store.Count(context.Background()),
	}
	if s.runs > 0 {
		stats["lastRunId"] = s.lastRunID
		stats["lastRunAt"] = s.lastRunAt.Format(time.RFC3339)
		stats["lastRunMs"] = s.lastElapsed.Milliseconds()
		stats["lastRunOk"] = s.lastErr == nil
	}
	if s.lastErr != nil {
		stats["lastError"] = s.lastErr.Error()
	}
	return stats
}
