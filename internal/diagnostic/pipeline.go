// Package diagnostic runs one telemetry submission against the prediction
// service and narrates its progress into a bounded log.
package diagnostic

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/OldStager01/sentinel-console/internal/client"
	"github.com/OldStager01/sentinel-console/internal/events"
	"github.com/OldStager01/sentinel-console/internal/logger"
	"github.com/OldStager01/sentinel-console/internal/telemetry"
	"github.com/OldStager01/sentinel-console/pkg/models"
)

var (
	ErrInProgress       = errors.New("diagnostic already in progress")
	ErrIncompleteForm   = errors.New("diagnostic form incomplete")
	ErrPredictionFailed = errors.New("prediction failed")
)

// Config holds the cosmetic pacing. FeatureDelay and InferenceDelay are
// offsets from submission; CompletionDelay follows the response. Zero
// disables a delay.
type Config struct {
	FeatureDelay    time.Duration
	InferenceDelay  time.Duration
	CompletionDelay time.Duration
	LogCapacity     int
}

func DefaultConfig() Config {
	return Config{
		FeatureDelay:    400 * time.Millisecond,
		InferenceDelay:  800 * time.Millisecond,
		CompletionDelay: 1200 * time.Millisecond,
		LogCapacity:     DefaultLogCapacity,
	}
}

// Observer receives run outcomes, typically the metrics registry.
type Observer interface {
	IncPrediction(outcome string)
	IncCritical(machineType string)
}

// Pipeline owns the results panel of one console: the latest result, the
// diagnostic log and the processing flag.
type Pipeline struct {
	sessionID string
	predictor client.Predictor
	publisher *events.Publisher
	observer  Observer
	logs      *LogBuffer
	cfg       Config

	mu         sync.RWMutex
	processing bool
	result     *models.PredictionResult
	lastRun    *models.DiagnosticRun
}

type PipelineConfig struct {
	SessionID string
	Predictor client.Predictor
	Publisher *events.Publisher
	Observer  Observer
	Config    Config
}

func NewPipeline(cfg PipelineConfig) *Pipeline {
	return &Pipeline{
		sessionID: cfg.SessionID,
		predictor: cfg.Predictor,
		publisher: cfg.Publisher,
		observer:  cfg.Observer,
		logs:      NewLogBuffer(cfg.Config.LogCapacity, SeedEntries()...),
		cfg:       cfg.Config,
	}
}

// Submit sends the form to the prediction service. Only one submission
// runs at a time; a second one returns ErrInProgress without touching
// state. On failure the previous result stays cleared.
func (p *Pipeline) Submit(ctx context.Context, form models.FormState) (*models.PredictionResult, error) {
	if missing := form.MissingFields(); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %w: %s", ErrIncompleteForm, models.ErrMissingField, strings.Join(missing, ", "))
	}
	if !form.MachineType.Valid() {
		return nil, fmt.Errorf("%w: %w", ErrIncompleteForm, models.ErrUnknownMachineType)
	}

	p.mu.Lock()
	if p.processing {
		p.mu.Unlock()
		return nil, ErrInProgress
	}
	p.processing = true
	p.result = nil
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.processing = false
		p.mu.Unlock()
	}()

	start := time.Now()
	req := telemetry.BuildRequest(form)
	run := models.NewDiagnosticRun(p.sessionID, req)

	p.log(models.LogInfo, MsgIngest)
	p.publisher.DiagnosticStage(p.sessionID, run.ID, models.StageIngest)

	narrCtx, stopNarration := context.WithCancel(ctx)
	defer stopNarration()
	narrDone := make(chan struct{})
	if p.paced() {
		go func() {
			defer close(narrDone)
			p.narrate(narrCtx, run.ID, start)
		}()
	} else {
		p.narrate(narrCtx, run.ID, start)
		close(narrDone)
	}

	result, err := p.predictor.Predict(ctx, req)
	if err != nil {
		stopNarration()
		<-narrDone
		return nil, p.fail(ctx, run, err)
	}

	sleep(ctx, p.cfg.CompletionDelay)
	<-narrDone

	p.complete(run, result)
	return result, nil
}

func (p *Pipeline) fail(ctx context.Context, run *models.DiagnosticRun, err error) error {
	logger.FromContext(ctx).WithError(err).Warn("Prediction request failed")

	p.log(models.LogError, MsgFault)
	p.publisher.DiagnosticStage(p.sessionID, run.ID, models.StageFailed)

	run.Fail(err)
	p.finish(run)
	if p.observer != nil {
		p.observer.IncPrediction("failure")
	}
	return fmt.Errorf("%w: %w", ErrPredictionFailed, err)
}

func (p *Pipeline) complete(run *models.DiagnosticRun, result *models.PredictionResult) {
	p.mu.Lock()
	p.result = result
	p.mu.Unlock()

	level := models.LogInfo
	if result.IsCritical() {
		level = models.LogError
	}
	p.log(level, CompletionMessage(result.MaxRisk))
	p.publisher.DiagnosticStage(p.sessionID, run.ID, models.StageComplete)
	p.publisher.ResultReady(p.sessionID, result)

	run.Succeed(result)
	p.finish(run)

	if p.observer != nil {
		p.observer.IncPrediction("success")
	}
	if result.IsCritical() {
		mode, score := result.TopFailureMode()
		p.publisher.Alert(p.sessionID, models.AlertData{
			SessionID:   p.sessionID,
			RunID:       run.ID,
			MachineType: run.MachineType,
			MaxRisk:     result.MaxRisk,
			TopMode:     mode,
			TopScore:    score,
			Timestamp:   time.Now(),
		})
		if p.observer != nil {
			p.observer.IncCritical(string(run.MachineType))
		}
	}
}

func (p *Pipeline) finish(run *models.DiagnosticRun) {
	p.mu.Lock()
	p.lastRun = run
	p.mu.Unlock()
	p.publisher.RunFinished(run)
}

func (p *Pipeline) log(level models.LogLevel, msg string) {
	entry := p.logs.Append(level, msg)
	p.publisher.LogAppended(p.sessionID, entry)
}

func (p *Pipeline) Result() *models.PredictionResult {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.result
}

func (p *Pipeline) Processing() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.processing
}

func (p *Pipeline) LastRun() *models.DiagnosticRun {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastRun
}

func (p *Pipeline) Logs() []models.LogEntry {
	return p.logs.Entries()
}

// IsCritical reports whether the current result crosses the risk threshold.
func (p *Pipeline) IsCritical() bool {
	return p.Result().IsCritical()
}

// sleep waits d or until ctx is done, whichever is first.
func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
