package entity

import (
	"time"
)

// RunState is the lifecycle state of a reissuance run
type RunState string

const (
	RunPending    RunState = "Pending"
	RunProcessing RunState = "Processing"
	RunCompleted  RunState = "Completed"
	RunFailed     RunState = "Failed"
	RunCancelled  RunState = "Cancelled"
)

// IsTerminal reports whether the state permits no further transitions
func (s RunState) IsTerminal() bool {
	return s == RunCompleted || s == RunFailed || s == RunCancelled
}

// Run is one reissuance batch tracked end-to-end
type Run struct {
	RunID            string         `json:"runId" bson:"runId"`
	State            RunState       `json:"state" bson:"state"`
	CriteriaSnapshot SearchCriteria `json:"criteriaSnapshot" bson:"criteriaSnapshot"`
	PassengerCount   int            `json:"passengerCount" bson:"passengerCount"`
	Tickets          []Ticket       `json:"tickets" bson:"tickets"`
	Warnings         []string       `json:"warnings,omitempty" bson:"warnings,omitempty"`
	ErrorDetail      string         `json:"errorDetail,omitempty" bson:"errorDetail,omitempty"`
	CreatedAt        time.Time      `json:"createdAt" bson:"createdAt"`
	CompletedAt      time.Time      `json:"completedAt,omitempty" bson:"completedAt,omitempty"`
}
