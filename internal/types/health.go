package types

import "time"

// RunStatus is the overall outcome of one pipeline invocation.
type RunStatus string

// Run outcomes. PartialFailure means some items failed but the run kept
// going; Failure means the run itself could not complete.
const (
	RunSuccess        RunStatus = "success"
	RunPartialFailure RunStatus = "partial_failure"
	RunFailure        RunStatus = "failure"
)

// Pipeline stage names, in execution order. StagesCompleted on a health
// record uses these so a consumer can tell exactly how far a run got.
const (
	StageDiscover = "discover"
	StageClassify = "classify"
	StageMatch    = "match"
	StageGenerate = "generate"
	StageNotify   = "notify"
)

// RunHealth is the single-row health record written after every pipeline
// run regardless of outcome. It is the source of truth for what happened;
// the dashboard and watchdog read it, nothing else in the core does.
type RunHealth struct {
	RunID              string    `json:"run_id"`
	Status             RunStatus `json:"status"`
	StartedAt          time.Time `json:"started_at"`
	DurationSeconds    float64   `json:"duration_seconds"`
	ListingsScraped    int       `json:"listings_scraped"`
	ListingsNew        int       `json:"listings_new"`
	ListingsClassified int       `json:"listings_classified"`
	ListingsMatched    int       `json:"listings_matched"`
	ProposalsGenerated int       `json:"proposals_generated"`
	ProposalsFailed    int       `json:"proposals_failed"`
	// QuotaExhausted records that generation stopped because the daily
	// proposal cap was already spent, so a zero-proposal run can be told
	// apart from one where nothing matched.
	QuotaExhausted  bool     `json:"quota_exhausted"`
	StagesCompleted []string `json:"stages_completed"`
	Error              string    `json:"error,omitempty"`
}
