package lifecycle

import "garagepro/internal/domain"

// Policy decides whether a job card may move between two statuses
type Policy interface {
	Allowed(from, to domain.JobStatus) bool
}

// AllowAll lets any status move to any other status
type AllowAll struct{}

func (AllowAll) Allowed(from, to domain.JobStatus) bool { return true }

// Table is a transition table keyed by the current status. Staying in the same
// status is always allowed.
type Table map[domain.JobStatus][]domain.JobStatus

func (t Table) Allowed(from, to domain.JobStatus) bool {
	if from == to {
		return true
	}
	for _, next := range t[from] {
		if next == to {
			return true
		}
	}
	return false
}

// StrictTransitions is the optional guarded workflow. Cancelled and paid-off
// work can be reopened as pending.
var StrictTransitions = Table{
	domain.JobStatusPending: {
		domain.JobStatusInProgress,
		domain.JobStatusCancelled,
	},
	domain.JobStatusInProgress: {
		domain.JobStatusPending,
		domain.JobStatusCompleted,
		domain.JobStatusAwaitingPayment,
		domain.JobStatusCancelled,
	},
	domain.JobStatusAwaitingPayment: {
		domain.JobStatusCompleted,
		domain.JobStatusCancelled,
	},
	domain.JobStatusCompleted: {
		domain.JobStatusAwaitingPayment,
		domain.JobStatusPending,
	},
	domain.JobStatusCancelled: {
		domain.JobStatusPending,
	},
}

// PolicyFor returns the strict table when strict is set, AllowAll otherwise
func PolicyFor(strict bool) Policy {
	if strict {
		return StrictTransitions
	}
	return AllowAll{}
}
