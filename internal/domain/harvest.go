package domain

import (
	"time"
)

// HarvestOutput is the snapshot produced by a harvest run. It is a flat,
// self-describing document; there are no delta semantics between runs.
type HarvestOutput struct {
	ScrapedAt time.Time `json:"scrapedAt"`
	TotalJobs int       `json:"totalJobs"`
	Jobs      []Job     `json:"jobs"`
}

// NewHarvestOutput assembles a snapshot from the surviving jobs.
func NewHarvestOutput(jobs []Job) *HarvestOutput {
	return &HarvestOutput{
		ScrapedAt: time.Now().UTC(),
		TotalJobs: len(jobs),
		Jobs:      jobs,
	}
}
