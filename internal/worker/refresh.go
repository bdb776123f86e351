package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/enviroscore/enviroscore/internal/airquality"
	"github.com/enviroscore/enviroscore/internal/noise"
)

// RefreshJob handles provider cache refresh operations.
type RefreshJob struct {
	config RefreshConfig
	logger zerolog.Logger

	// Services (optional, nil if not configured)
	airQualityService *airquality.Service
	noiseService      *noise.Service

	// Metrics
	metrics *RefreshMetrics
}

// RefreshMetrics tracks refresh job statistics.
type RefreshMetrics struct {
	mu sync.RWMutex

	// Counters
	TotalRefreshes    int64
	SuccessfulRefresh int64
	FailedRefreshes   int64
	AirQualityRefresh int64
	NoiseRefresh      int64

	// Timings
	LastRefreshAt       time.Time
	LastRefreshDuration time.Duration
	TotalDuration       time.Duration
}

// RefreshJobConfig holds configuration for creating a RefreshJob.
type RefreshJobConfig struct {
	Config            RefreshConfig
	Logger            zerolog.Logger
	AirQualityService *airquality.Service
	NoiseService      *noise.Service
}

// NewRefreshJob creates a new refresh job processor.
func NewRefreshJob(cfg RefreshJobConfig) *RefreshJob {
	config := cfg.Config
	if len(config.Targets) == 0 {
		config = DefaultRefreshConfig()
	}

	return &RefreshJob{
		config:            config,
		logger:            cfg.Logger,
		airQualityService: cfg.AirQualityService,
		noiseService:      cfg.NoiseService,
		metrics:           &RefreshMetrics{},
	}
}

// RefreshResult contains the result of a refresh operation.
type RefreshResult struct {
	StartTime   time.Time
	EndTime     time.Time
	Duration    time.Duration
	TotalPoints int
	Successful  int
	Failed      int
	Errors      []RefreshError
}

// RefreshError represents an error during refresh.
type RefreshError struct {
	Provider string
	Point    Point
	Error    string
}

// Run executes the refresh job for all configured targets.
func (j *RefreshJob) Run(ctx context.Context) *RefreshResult {
	startTime := time.Now()
	result := &RefreshResult{
		StartTime:   startTime,
		TotalPoints: j.config.TotalPoints(),
	}

	j.logger.Info().
		Int("total_points", result.TotalPoints).
		Int("concurrency", j.config.Concurrency).
		Msg("starting provider refresh job")

	// Get all points to refresh
	points := j.config.AllPoints()

	// Create work channels
	pointsChan := make(chan Point, len(points))
	resultsChan := make(chan pointResult, len(points))

	// Start workers
	var wg sync.WaitGroup
	for i := 0; i < j.config.Concurrency; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			j.refreshWorker(ctx, workerID, pointsChan, resultsChan)
		}(i)
	}

	// Send points to workers
	for _, p := range points {
		pointsChan <- p
	}
	close(pointsChan)

	// Wait for workers to complete
	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	// Collect results
	for pr := range resultsChan {
		if pr.success {
			result.Successful++
		} else {
			result.Failed++
		}
		result.Errors = append(result.Errors, pr.errors...)
	}

	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(startTime)

	// Update metrics
	j.updateMetrics(result)

	j.logger.Info().
		Dur("duration", result.Duration).
		Int("successful", result.Successful).
		Int("failed", result.Failed).
		Msg("provider refresh job completed")

	return result
}

type pointResult struct {
	point   Point
	success bool
	errors  []RefreshError
}

func (j *RefreshJob) refreshWorker(ctx context.Context, _ int, points <-chan Point, results chan<- pointResult) {
	for point := range points {
		select {
		case <-ctx.Done():
			return
		default:
			result := j.refreshPoint(ctx, point)
			results <- result
		}
	}
}

func (j *RefreshJob) refreshPoint(ctx context.Context, point Point) pointResult {
	result := pointResult{
		point:   point,
		success: true,
	}

	// Create timeout context for this point
	pointCtx, cancel := context.WithTimeout(ctx, j.config.Timeout)
	defer cancel()

	// Refresh air quality
	if j.config.RefreshAirQuality && j.airQualityService != nil {
		if _, err := j.airQualityService.ReadingAt(pointCtx, point.Lat, point.Lon); err != nil {
			result.errors = append(result.errors, RefreshError{
				Provider: "airquality",
				Point:    point,
				Error:    err.Error(),
			})
			result.success = false
		} else {
			atomic.AddInt64(&j.metrics.AirQualityRefresh, 1)
		}
	}

	// Warm the acoustic model; this exercises the geodata provider and its
	// circuit breaker for the ops status endpoint.
	if j.config.RefreshNoise && j.noiseService != nil {
		if _, err := j.noiseService.ComputeNoise(pointCtx, point.Lat, point.Lon, 0); err != nil {
			result.errors = append(result.errors, RefreshError{
				Provider: "noise",
				Point:    point,
				Error:    err.Error(),
			})
			result.success = false
		} else {
			atomic.AddInt64(&j.metrics.NoiseRefresh, 1)
		}
	}

	return result
}

func (j *RefreshJob) updateMetrics(result *RefreshResult) {
	j.metrics.mu.Lock()
	defer j.metrics.mu.Unlock()

	j.metrics.TotalRefreshes++
	j.metrics.SuccessfulRefresh += int64(result.Successful)
	j.metrics.FailedRefreshes += int64(result.Failed)
	j.metrics.LastRefreshAt = result.EndTime
	j.metrics.LastRefreshDuration = result.Duration
	j.metrics.TotalDuration += result.Duration
}

// GetMetrics returns a copy of the current metrics.
func (j *RefreshJob) GetMetrics() RefreshMetrics {
	j.metrics.mu.RLock()
	defer j.metrics.mu.RUnlock()

	return RefreshMetrics{
		TotalRefreshes:      j.metrics.TotalRefreshes,
		SuccessfulRefresh:   j.metrics.SuccessfulRefresh,
		FailedRefreshes:     j.metrics.FailedRefreshes,
		AirQualityRefresh:   j.metrics.AirQualityRefresh,
		NoiseRefresh:        j.metrics.NoiseRefresh,
		LastRefreshAt:       j.metrics.LastRefreshAt,
		LastRefreshDuration: j.metrics.LastRefreshDuration,
		TotalDuration:       j.metrics.TotalDuration,
	}
}

// MetricsSnapshot returns a snapshot of the current metrics as a map.
func (j *RefreshJob) MetricsSnapshot() map[string]interface{} {
	m := j.GetMetrics()
	return map[string]interface{}{
		"total_refreshes":       m.TotalRefreshes,
		"successful_refreshes":  m.SuccessfulRefresh,
		"failed_refreshes":      m.FailedRefreshes,
		"airquality_refreshes":  m.AirQualityRefresh,
		"noise_refreshes":       m.NoiseRefresh,
		"last_refresh_at":       m.LastRefreshAt,
		"last_refresh_duration": m.LastRefreshDuration.String(),
		"total_duration":        m.TotalDuration.String(),
	}
}
