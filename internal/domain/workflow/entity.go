package workflow

import "time"

// Run statuses and conclusions as reported by the GitHub Actions API
const (
	StatusQueued     = "queued"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"

	ConclusionSuccess   = "success"
	ConclusionFailure   = "failure"
	ConclusionCancelled = "cancelled"
)

// Display statuses shown on the dashboard
const (
	DisplaySuccess    = "success"
	DisplayFailure    = "failure"
	DisplayCancelled  = "cancelled"
	DisplayInProgress = "in_progress"
	DisplayQueued     = "queued"
	DisplayUnknown    = "unknown"
)

// Workflow is a GitHub Actions workflow definition
type Workflow struct {
	ID      int64
	Name    string
	Path    string
	State   string
	HTMLURL string
}

// Run is a single execution of a workflow
type Run struct {
	ID         int64
	Name       string
	RunNumber  int
	Status     string
	Conclusion string
	Event      string
	HeadBranch string
	HTMLURL    string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// DisplayStatus collapses status and conclusion into the badge shown for a run
func (r *Run) DisplayStatus() string {
	switch r.Status {
	case StatusCompleted:
		switch r.Conclusion {
		case ConclusionSuccess:
			return DisplaySuccess
		case ConclusionFailure:
			return DisplayFailure
		case ConclusionCancelled:
			return DisplayCancelled
		}
	case StatusInProgress:
		return DisplayInProgress
	case StatusQueued:
		return DisplayQueued
	}
	return DisplayUnknown
}

// WithLatestRun summarises a workflow together with its most recent run.
// LatestRun is nil when the workflow never ran or the run could not be fetched.
type WithLatestRun struct {
	WorkflowID    int64
	WorkflowName  string
	WorkflowPath  string
	WorkflowState string
	WorkflowURL   string
	LatestRun     *Run
}

// NewWithLatestRun builds a summary for w
func NewWithLatestRun(w *Workflow, latest *Run) WithLatestRun {
	return WithLatestRun{
		WorkflowID:    w.ID,
		WorkflowName:  w.Name,
		WorkflowPath:  w.Path,
		WorkflowState: w.State,
		WorkflowURL:   w.HTMLURL,
		LatestRun:     latest,
	}
}
