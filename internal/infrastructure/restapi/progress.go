package restapi

import "bridge_checker/internal/app/port"

// logProgressReporter forwards progress events to the application logger.
// Step events are informational only; nothing consumes them programmatically.
type logProgressReporter struct {
	logger port.Logger
}

// NewLogProgressReporter creates a port.ProgressReporter that logs each step.
func NewLogProgressReporter(l port.Logger) port.ProgressReporter {
	return &logProgressReporter{logger: l}
}

func (r *logProgressReporter) StartStep(stepID, name, detail string) {
	r.logger.Info("Step started", "step", stepID, "name", name, "detail", detail)
}

func (r *logProgressReporter) UpdateStep(stepID, detail string) {
	r.logger.Debug("Step progress", "step", stepID, "detail", detail)
}

func (r *logProgressReporter) CompleteStep(stepID, detail string) {
	r.logger.Info("Step complete", "step", stepID, "detail", detail)
}

func (r *logProgressReporter) ErrorStep(stepID, errDetail string) {
	r.logger.Error("Step failed", "step", stepID, "error", errDetail)
}
