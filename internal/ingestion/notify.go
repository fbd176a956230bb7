package ingestion

import (
	"portal-backend/internal/shared/metrics"
	"portal-backend/internal/shared/telemetry"
)

// Notifier receives lifecycle events for one ingestion. Ingest emits exactly
// one Started and exactly one terminal Succeeded or Failed per call.
type Notifier interface {
	Started(userID, fileName string)
	Succeeded(userID, profileID, path string)
	Failed(userID, code, message string)
}

// TelemetryNotifier logs lifecycle events and bumps the ingestion counters.
type TelemetryNotifier struct{}

func (TelemetryNotifier) Started(userID, fileName string) {
	metrics.IncIngestStarted()
	telemetry.Info("ingest.started", map[string]any{
		"user_id":   userID,
		"file_name": fileName,
	})
}

func (TelemetryNotifier) Succeeded(userID, profileID, path string) {
	metrics.IncIngestCompleted()
	metrics.IncIngestPath(path)
	telemetry.Info("ingest.succeeded", map[string]any{
		"user_id":     userID,
		"profile_id":  profileID,
		"ingest_path": path,
	})
}

func (TelemetryNotifier) Failed(userID, code, message string) {
	metrics.IncIngestFailed()
	telemetry.Error("ingest.failed", map[string]any{
		"user_id": userID,
		"code":    code,
		"error":   message,
	})
}

var _ Notifier = TelemetryNotifier{}
