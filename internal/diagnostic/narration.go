package diagnostic

import (
	"context"
	"fmt"
	"math"
	"math/big"
	"time"

	"github.com/OldStager01/sentinel-console/pkg/models"
)

const (
	MsgIngest    = "Initiating hardware sensor ingestion..."
	MsgFeatures  = "Mapping engineered features: Power_W, TempDelta..."
	MsgInference = "Executing RandomForest inference kernel..."
	MsgFault     = "Mnemonic Kernel Fault: Prediction failure."
)

// CompletionMessage is the closing log line of a successful run.
func CompletionMessage(maxRisk float64) string {
	return fmt.Sprintf("Analysis complete. Risk Vector: %s%%", fixed1(maxRisk))
}

// fixed1 formats x with one decimal, rounding the exact binary value half
// away from zero. 12.25 becomes 12.3 where %.1f would give 12.2.
func fixed1(x float64) string {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return fmt.Sprintf("%.1f", x)
	}

	sign := ""
	if x < 0 {
		sign = "-"
		x = -x
	}

	// 53 mantissa bits times ten fit in 64, so scaled and frac are exact.
	scaled := new(big.Float).SetPrec(64).SetFloat64(x)
	scaled.Mul(scaled, big.NewFloat(10))
	tenths, _ := scaled.Int(nil)
	frac := new(big.Float).SetPrec(64).Sub(scaled, new(big.Float).SetInt(tenths))
	if frac.Cmp(big.NewFloat(0.5)) >= 0 {
		tenths.Add(tenths, big.NewInt(1))
	}

	whole, digit := new(big.Int).QuoRem(tenths, big.NewInt(10), new(big.Int))
	return fmt.Sprintf("%s%s.%s", sign, whole.String(), digit.String())
}

type narrationStep struct {
	offset time.Duration
	stage  models.DiagnosticStage
	msg    string
}

func (p *Pipeline) narrationSteps() []narrationStep {
	return []narrationStep{
		{offset: p.cfg.FeatureDelay, stage: models.StageFeatures, msg: MsgFeatures},
		{offset: p.cfg.InferenceDelay, stage: models.StageInference, msg: MsgInference},
	}
}

// narrate emits the advisory progress lines at their offsets from start.
// It returns early, leaving later lines unwritten, once ctx is done.
func (p *Pipeline) narrate(ctx context.Context, runID string, start time.Time) {
	for _, step := range p.narrationSteps() {
		if wait := time.Until(start.Add(step.offset)); wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
		} else if ctx.Err() != nil {
			return
		}

		p.log(models.LogInfo, step.msg)
		p.publisher.DiagnosticStage(p.sessionID, runID, step.stage)
	}
}

func (p *Pipeline) paced() bool {
	return p.cfg.FeatureDelay > 0 || p.cfg.InferenceDelay > 0
}
