// Package analysis connects the CWQI engine to the results store.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chrissnell/remotewater/internal/database"
	"github.com/chrissnell/remotewater/pkg/cwqi"
	"go.uber.org/zap"
)

// ErrInvalidSample is returned for an empty or malformed sample number.
var ErrInvalidSample = errors.New("invalid sample number")

// Store is the subset of the database client the service needs.
type Store interface {
	RowsForSample(ctx context.Context, sampleNumber string) ([]cwqi.RawParameterRow, error)
	SaveScores(ctx context.Context, score *database.ReportScore) error
	LatestScores(ctx context.Context, sampleNumber string) (*database.ReportScore, error)
}

// Service scores samples from the store and persists the results.
type Service struct {
	store  Store
	engine *cwqi.Engine
	logger *zap.SugaredLogger
	now    func() time.Time
}

// NewService creates a Service. A nil logger discards output.
func NewService(store Store, engine *cwqi.Engine, logger *zap.SugaredLogger) *Service {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Service{
		store:  store,
		engine: engine,
		logger: logger,
		now:    time.Now,
	}
}

// Engine returns the engine the service scores with.
func (s *Service) Engine() *cwqi.Engine {
	return s.engine
}

// Analyze scores rows supplied by the caller without touching the store.
func (s *Service) Analyze(rows []cwqi.RawParameterRow) cwqi.SampleAnalysis {
	return s.engine.Analyze(rows)
}

// AnalyzeSample loads a sample's rows and scores them.
func (s *Service) AnalyzeSample(ctx context.Context, sampleNumber string) (cwqi.SampleAnalysis, error) {
	sampleNumber, err := normalizeSample(sampleNumber)
	if err != nil {
		return cwqi.SampleAnalysis{}, err
	}

	rows, err := s.store.RowsForSample(ctx, sampleNumber)
	if err != nil {
		return cwqi.SampleAnalysis{}, err
	}
	return s.engine.Analyze(rows), nil
}

// ScoreSample analyzes a sample and writes its scores onto the report record.
func (s *Service) ScoreSample(ctx context.Context, sampleNumber string) (*database.ReportScore, error) {
	sampleNumber, err := normalizeSample(sampleNumber)
	if err != nil {
		return nil, err
	}

	a, err := s.AnalyzeSample(ctx, sampleNumber)
	if err != nil {
		return nil, err
	}

	score := database.NewReportScore(sampleNumber, a, s.engine.Settings(), s.now())
	if err := s.store.SaveScores(ctx, score); err != nil {
		return nil, fmt.Errorf("failed to persist scores: %w", err)
	}

	s.logger.Debugw("scored sample",
		"sample", sampleNumber,
		"health_score", score.HealthScore,
		"ao_score", score.AOScore,
		"coliform", score.ColiformDetected)
	return score, nil
}

// LatestScores returns the last persisted scores for a sample.
func (s *Service) LatestScores(ctx context.Context, sampleNumber string) (*database.ReportScore, error) {
	sampleNumber, err := normalizeSample(sampleNumber)
	if err != nil {
		return nil, err
	}
	return s.store.LatestScores(ctx, sampleNumber)
}

func normalizeSample(sampleNumber string) (string, error) {
	sampleNumber = strings.TrimSpace(sampleNumber)
	if sampleNumber == "" || strings.ContainsAny(sampleNumber, "/\\") {
		return "", fmt.Errorf("%w: %q", ErrInvalidSample, sampleNumber)
	}
	return sampleNumber, nil
}
