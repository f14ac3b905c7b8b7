package entity

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAddress is returned before any upstream call for malformed addresses.
	ErrInvalidAddress = errors.New("invalid ethereum address")
	// ErrRateLimited marks an upstream 429 so callers can back off and retry.
	ErrRateLimited = errors.New("upstream rate limited")
)

// DiscoveryError wraps a failure of the balance-discovery stage, which aborts the whole request.
type DiscoveryError struct {
	Address string
	Err     error
}

func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("discover balances for %s: %v", e.Address, e.Err)
}

func (e *DiscoveryError) Unwrap() error {
	return e.Err
}

// OutcomeStatus classifies how a pipeline stage finished for one item.
type OutcomeStatus int

const (
	OutcomeOK OutcomeStatus = iota
	OutcomeDegraded
)

func (s OutcomeStatus) String() string {
	switch s {
	case OutcomeOK:
		return "ok"
	case OutcomeDegraded:
		return "degraded"
	default:
		return "unknown"
	}
}

// StageOutcome records whether a per-item stage succeeded or degraded to a default.
type StageOutcome struct {
	Status OutcomeStatus
	Reason string
}

func OK() StageOutcome { return StageOutcome{Status: OutcomeOK} }

func Degraded(reason string) StageOutcome {
	return StageOutcome{Status: OutcomeDegraded, Reason: reason}
}
