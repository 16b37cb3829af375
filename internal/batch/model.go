package batch

import (
	"github.com/bartekus/estimator/internal/complexity"
	"github.com/bartekus/estimator/internal/estimate"
)

// Status represents the outcome of one ticket estimate.
type Status string

const (
	StatusOK     Status = "ok"
	StatusFailed Status = "failed"
)

// Ticket is one entry of a batch file. Optional fields left out take the
// configuration defaults.
type Ticket struct {
	ID                    string             `yaml:"id"`
	Title                 string             `yaml:"title"`
	Description           string             `yaml:"description"`
	ProjectType           string             `yaml:"project_type"`
	IssueType             string             `yaml:"issue_type"`
	TaskType              string             `yaml:"task_type"`
	Scores                *complexity.Scores `yaml:"complexity_scores"`
	TeamVelocity          *float64           `yaml:"team_velocity"`
	InfrastructureChanges *bool              `yaml:"has_infrastructure_changes"`
	FileCount             *int               `yaml:"file_count"`
	Files                 []string           `yaml:"files"`
}

// Request converts the ticket to an estimate request.
func (t Ticket) Request() estimate.Request {
	return estimate.Request{
		Title:                 t.Title,
		Description:           t.Description,
		ProjectType:           t.ProjectType,
		IssueType:             t.IssueType,
		Scores:                t.Scores,
		TaskTypeOverride:      t.TaskType,
		TeamVelocity:          t.TeamVelocity,
		InfrastructureChanges: t.InfrastructureChanges,
		FileCount:             t.FileCount,
		Files:                 t.Files,
	}
}

// File is the top-level shape of a batch file.
type File struct {
	Tickets []Ticket `yaml:"tickets"`
}

// Outcome is the result of a single ticket.
type Outcome struct {
	ID     string           `json:"id"`
	Status Status           `json:"status"`
	Error  string           `json:"error,omitempty"`
	Result *estimate.Result `json:"result,omitempty"`
}

// Report summarises a batch run.
type Report struct {
	Status   string    `json:"status"` // "pass" or "fail"
	Outcomes []Outcome `json:"outcomes"`
	Failed   []string  `json:"failed"`
}
