package domain

import "time"

type FileStatus string

const (
	FileStatusSuccess   FileStatus = "success"
	FileStatusDuplicate FileStatus = "skipped-duplicate"
	FileStatusFailed    FileStatus = "failed"
)

type FileResult struct {
	Name     string        `json:"name"`
	Path     string        `json:"path"`
	Status   FileStatus    `json:"status"`
	Error    string        `json:"error,omitempty"`
	Variant  Variant       `json:"variant,omitempty"`
	Skipped  bool          `json:"skipped_overlay,omitempty"`
	Duration time.Duration `json:"duration"`
}

// PassSummary aggregates the outcome of one full scan of the input tree.
type PassSummary struct {
	ID          string       `json:"id"`
	StartedAt   time.Time    `json:"started_at"`
	FinishedAt  time.Time    `json:"finished_at"`
	Results     []FileResult `json:"results"`
	Processed   int          `json:"processed"`
	Duplicates  int          `json:"duplicates"`
	Failed      int          `json:"failed"`
	LedgerSize  int          `json:"ledger_size"`
	LedgerError string       `json:"ledger_error,omitempty"`
}

func (s *PassSummary) Add(r FileResult) {
	s.Results = append(s.Results, r)
	switch r.Status {
	case FileStatusSuccess:
		s.Processed++
	case FileStatusDuplicate:
		s.Duplicates++
	case FileStatusFailed:
		s.Failed++
	}
}
