package telemetry

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultInterval = 15 * time.Second
	MinInterval     = 5 * time.Second
	DefaultResults  = 20
	staleIntervals  = 3
)

type Fetcher interface {
	FetchField(ctx context.Context, field int, results int) ([]Point, error)
}

type Reading struct {
	Metric string    `json:"metric"`
	Value  float64   `json:"value"`
	Unit   string    `json:"unit"`
	Status string    `json:"status"`
	At     time.Time `json:"at"`
}

type Snapshot struct {
	Readings    map[string]Reading
	Series      map[string][]Point
	UpdatedAt   time.Time
	LastError   string
	LastErrorAt time.Time
}

// Status is the read model served to clients.
type Status struct {
	Readings  []Reading  `json:"readings"`
	UpdatedAt *time.Time `json:"updated_at"`
	Stale     bool       `json:"stale"`
	LastError string     `json:"last_error,omitempty"`
}

type PollerOptions struct {
	Interval time.Duration
	Results  int
}

// Poller refreshes an in-memory snapshot on a fixed schedule. A failed poll
// keeps the previous snapshot and only records the error.
type Poller struct {
	fetcher  Fetcher
	fields   map[string]int
	interval time.Duration
	results  int
	logger   *zap.Logger
	now      func() time.Time

	cron   *cron.Cron
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.RWMutex
	snapshot Snapshot
}

func NewPoller(fetcher Fetcher, fields map[string]int, options PollerOptions, logger *zap.Logger) (*Poller, error) {
	if fetcher == nil {
		return nil, errors.New("telemetry fetcher is required")
	}
	if len(fields) == 0 {
		return nil, errors.New("no telemetry fields configured")
	}
	if options.Interval == 0 {
		options.Interval = DefaultInterval
	}
	if options.Interval < MinInterval {
		return nil, fmt.Errorf("telemetry interval %s below minimum %s", options.Interval, MinInterval)
	}
	if options.Results <= 0 {
		options.Results = DefaultResults
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("telemetry")

	ctx, cancel := context.WithCancel(context.Background())
	cronLog := cronLogger{logger: logger.Sugar()}
	return &Poller{
		fetcher:  fetcher,
		fields:   fields,
		interval: options.Interval,
		results:  options.Results,
		logger:   logger,
		now:      time.Now,
		cron:     cron.New(cron.WithLogger(cronLog), cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog))),
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Start schedules the poll every interval and runs the first one right away.
func (poller *Poller) Start() error {
	if _, err := poller.cron.AddFunc("@every "+poller.interval.String(), poller.runScheduled); err != nil {
		return fmt.Errorf("schedule telemetry poll: %w", err)
	}
	poller.wg.Add(1)
	go func() {
		defer poller.wg.Done()
		_ = poller.Poll(poller.ctx)
	}()
	poller.cron.Start()
	poller.logger.Info("telemetry poller started",
		zap.Duration("interval", poller.interval),
		zap.Int("fields", len(poller.fields)),
	)
	return nil
}

// Stop waits for a running poll. Fetches still in flight when ctx expires
// are cancelled.
func (poller *Poller) Stop(ctx context.Context) error {
	cronDone := poller.cron.Stop()
	done := make(chan struct{})
	go func() {
		<-cronDone.Done()
		poller.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		poller.cancel()
		return nil
	case <-ctx.Done():
		poller.cancel()
		<-done
		return ctx.Err()
	}
}

func (poller *Poller) runScheduled() {
	_ = poller.Poll(poller.ctx)
}

// Poll fetches every configured field concurrently. No retries; the next
// tick is the retry.
func (poller *Poller) Poll(ctx context.Context) error {
	metrics := sortedMetrics(poller.fields)
	results := make([][]Point, len(metrics))

	group, groupCtx := errgroup.WithContext(ctx)
	for index, metric := range metrics {
		field := poller.fields[metric]
		group.Go(func() error {
			points, err := poller.fetcher.FetchField(groupCtx, field, poller.results)
			if err != nil {
				return fmt.Errorf("%s: %w", metric, err)
			}
			results[index] = points
			return nil
		})
	}

	now := poller.now()
	if err := group.Wait(); err != nil {
		poller.mu.Lock()
		poller.snapshot.LastError = err.Error()
		poller.snapshot.LastErrorAt = now
		poller.mu.Unlock()
		poller.logger.Warn("telemetry poll failed", zap.Error(err))
		return err
	}

	next := Snapshot{
		Readings:  make(map[string]Reading, len(metrics)),
		Series:    make(map[string][]Point, len(metrics)),
		UpdatedAt: now,
	}
	for index, metric := range metrics {
		points := results[index]
		next.Series[metric] = points
		if latest, ok := latestPoint(points); ok {
			next.Readings[metric] = Reading{
				Metric: metric,
				Value:  latest.Value,
				Unit:   Unit(metric),
				Status: Classify(metric, latest.Value),
				At:     latest.At,
			}
		}
	}

	poller.mu.Lock()
	poller.snapshot = next
	poller.mu.Unlock()
	poller.logger.Debug("telemetry poll finished", zap.Int("metrics", len(next.Readings)))
	return nil
}

func (poller *Poller) Snapshot() Snapshot {
	poller.mu.RLock()
	defer poller.mu.RUnlock()
	return poller.snapshot
}

func (poller *Poller) Status() Status {
	snapshot := poller.Snapshot()
	status := Status{Readings: make([]Reading, 0, len(snapshot.Readings)), LastError: snapshot.LastError}
	for _, metric := range sortedMetrics(poller.fields) {
		if reading, ok := snapshot.Readings[metric]; ok {
			status.Readings = append(status.Readings, reading)
		}
	}
	if snapshot.UpdatedAt.IsZero() {
		status.Stale = true
		return status
	}
	updatedAt := snapshot.UpdatedAt
	status.UpdatedAt = &updatedAt
	status.Stale = poller.now().Sub(updatedAt) > staleIntervals*poller.interval
	return status
}

// Series returns the points of the last successful poll for metric.
func (poller *Poller) Series(metric string) ([]Point, bool) {
	if _, ok := poller.fields[metric]; !ok {
		return nil, false
	}
	snapshot := poller.Snapshot()
	points := snapshot.Series[metric]
	return append([]Point{}, points...), true
}

func latestPoint(points []Point) (Point, bool) {
	if len(points) == 0 {
		return Point{}, false
	}
	latest := points[0]
	for _, point := range points[1:] {
		if point.At.After(latest.At) {
			latest = point
		}
	}
	return latest, true
}

type cronLogger struct {
	logger *zap.SugaredLogger
}

func (log cronLogger) Info(msg string, keysAndValues ...interface{}) {
	log.logger.Debugw(msg, keysAndValues...)
}

func (log cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	log.logger.Errorw(msg, append(keysAndValues, "error", err)...)
}
