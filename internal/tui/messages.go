package tui

import "github.com/agbru/fetchboard/internal/orchestration"

// SettleMsg carries one settle update of an in-flight cycle.
type SettleMsg struct {
	Update orchestration.SettleUpdate
}

// AggregateMsg carries the delivered aggregate of a cycle.
type AggregateMsg struct {
	Aggregate orchestration.Aggregate
}

// CycleStartedMsg is sent once a cycle has been accepted by the coordinator.
type CycleStartedMsg struct {
	CycleID string
}

// CycleErrorMsg is sent when the coordinator refused to start a cycle.
type CycleErrorMsg struct {
	Err error
}
