package domain

import "time"

// SyncFailure records why one product could not be synced.
type SyncFailure struct {
	ProductID int64  `json:"product_id"`
	RepoURL   string `json:"repo_url"`
	Reason    string `json:"reason"`
}

// SyncRun is the summary of one GitHub stats batch.
type SyncRun struct {
	ID         string        `json:"run_id"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Updated    []int64       `json:"updated"`
	Failed     []SyncFailure `json:"failed"`
}

// FailedIDs returns the product ids that failed, in order.
func (r *SyncRun) FailedIDs() []int64 {
	ids := make([]int64, len(r.Failed))
	for i, f := range r.Failed {
		ids[i] = f.ProductID
	}
	return ids
}

// Duration is how long the run took.
func (r *SyncRun) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
