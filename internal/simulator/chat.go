package simulator

import (
	"fmt"
	"strings"

	"github.com/OldStager01/sentinel-console/internal/telemetry"
	"github.com/OldStager01/sentinel-console/pkg/models"
)

const offTopicReply = "My neural pathways are optimized for hardware diagnostics only. " +
	"Please provide a telemetry sequence or ask about machine maintenance."

var topicReplies = []struct {
	keywords []string
	reply    string
}{
	{
		keywords: []string{"power", "watt", "energy"},
		reply:    "Power (W) = Torque(Nm) * (RPM * 2 * pi / 60). A power failure is flagged below 3500W or above 9000W.",
	},
	{
		keywords: []string{"heat", "temperature", "cool", "hot"},
		reply:    "Heat dissipation failure occurs when the process-to-air delta drops below 8.6K while speed is under 1380 RPM. Check coolant flow first.",
	},
	{
		keywords: []string{"wear", "tool"},
		reply:    "Tool wear failure is triggered between 200 and 240 minutes of wear. Schedule a tool change before 200 minutes.",
	},
	{
		keywords: []string{"torque", "strain", "overstrain", "load"},
		reply:    "Overstrain occurs when tool wear times torque exceeds the type threshold: 11,000 for L, 12,000 for M, 13,000 for H.",
	},
}

var onTopic = []string{"machine", "maintenance", "failure", "risk", "sensor", "telemetry", "status", "rpm", "speed", "diagnos"}

// Reply produces a short canned assistant answer grounded in the form the
// operator is looking at.
func Reply(req models.ChatRequest) string {
	msg := strings.ToLower(req.Message)

	for _, t := range topicReplies {
		if containsAny(msg, t.keywords) {
			return t.reply
		}
	}

	if containsAny(msg, onTopic) {
		return describeStats(req.CurrentStats)
	}
	return offTopicReply
}

func describeStats(f models.FormState) string {
	if !f.Ready() {
		return "No active machine telemetry detected. Enter speed, torque and process temperature to run an inference."
	}

	req := telemetry.BuildRequest(f)
	scores := Score(req)
	top, topScore := models.FailureRandom, -1.0
	for _, mode := range models.AllFailureModes() {
		if scores[mode] > topScore {
			top, topScore = mode, scores[mode]
		}
	}

	return fmt.Sprintf(
		"Telemetry vector for a %s unit at %.0f RPM and %.1f Nm draws %.0fW. Dominant risk is %s at %.1f%%.",
		f.MachineType.Label(), float64(req.RotationalSpeed), float64(req.Torque),
		telemetry.PowerW(float64(req.RotationalSpeed), float64(req.Torque)),
		top, topScore,
	)
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
