package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskAnalyticsWarmup pre-computes report caches ahead of dashboard traffic.
	TaskAnalyticsWarmup = "analytics:warmup"
)

// Report names accepted in a warmup payload.
const (
	ReportSales     = "sales"
	ReportInventory = "inventory"
	ReportFinancial = "financial"
)

// WarmupPayload selects which reports the warmup run should touch. An empty
// list warms everything.
type WarmupPayload struct {
	Reports []string `json:"reports,omitempty"`
}

// NewAnalyticsWarmupTask constructs an Asynq task for the report warmup.
func NewAnalyticsWarmupTask(payload WarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAnalyticsWarmup, data), nil
}
