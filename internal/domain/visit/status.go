package visit

import (
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// ===============================
// Visit Status
// ===============================

type Status string

const (
	StatusScheduled  Status = "SCHEDULED"
	StatusCheckedIn  Status = "CHECKED_IN"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusCancelled  Status = "CANCELLED"
	StatusNoShow     Status = "NO_SHOW"
)

var allStatuses = map[Status]bool{
	StatusScheduled:  true,
	StatusCheckedIn:  true,
	StatusInProgress: true,
	StatusCompleted:  true,
	StatusCancelled:  true,
	StatusNoShow:     true,
}

func (s Status) Valid() bool {
	return allStatuses[s]
}

// IsTerminal reports whether no operation may move a visit out of s.
// NO_SHOW is set outside this service and is terminal as well.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusNoShow
}

// BlocksSlot reports whether a visit in status s occupies its slot.
func (s Status) BlocksSlot() bool {
	return s != StatusCancelled && s != StatusNoShow
}

// NonBlockingStatuses are ignored by the overlap scan.
func NonBlockingStatuses() []string {
	return []string{string(StatusCancelled), string(StatusNoShow)}
}

// Statuses a transition may start from. Repositories use them as the
// expected prior state of the conditional update.
var (
	CheckInFrom    = []Status{StatusScheduled}
	StartFrom      = []Status{StatusScheduled, StatusCheckedIn}
	CompleteFrom   = []Status{StatusInProgress}
	CancelFrom     = []Status{StatusScheduled, StatusCheckedIn, StatusInProgress}
	RescheduleFrom = []Status{StatusScheduled, StatusCheckedIn, StatusInProgress}
	UpdateFrom     = []Status{StatusScheduled, StatusCheckedIn, StatusInProgress}
)

func InitialStatus() Status {
	return StatusScheduled
}

// StatusStrings converts a transition source set for use in queries.
func StatusStrings(in []Status) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = string(s)
	}
	return out
}

// ===============================
// Guards
// ===============================

// HasCheckedIn is the explicit check-in guard. Check-in leaves the status
// at SCHEDULED and only stamps the arrival time.
func HasCheckedIn(v *models.Visit) bool {
	return v.CheckInTime != nil || Status(v.Status) == StatusCheckedIn
}

func CanCheckIn(v *models.Visit) error {
	if Status(v.Status) != StatusScheduled {
		return httperr.InvalidStateErr("invalid_state", "only scheduled visits can be checked in")
	}
	if HasCheckedIn(v) {
		return httperr.InvalidStateErr("already_checked_in", "visit is already checked in")
	}
	return nil
}

func CanStart(v *models.Visit) error {
	current := Status(v.Status)
	if current.IsTerminal() {
		return httperr.InvalidStateErr("visit_closed", "visit is already "+string(current))
	}
	if current == StatusInProgress {
		return httperr.InvalidStateErr("visit_already_started", "visit is already in progress")
	}
	if !HasCheckedIn(v) {
		return httperr.InvalidStateErr("must_check_in", "must check in before starting")
	}
	return nil
}

func CanComplete(current Status) error {
	if current != StatusInProgress {
		return httperr.InvalidStateErr("invalid_state", "only visits in progress can be completed")
	}
	return nil
}

func CanCancel(current Status) error {
	switch current {
	case StatusCompleted:
		return httperr.InvalidStateErr("cannot_cancel_completed", "cannot cancel a completed visit")
	case StatusCancelled, StatusNoShow:
		return httperr.InvalidStateErr("visit_closed", "visit is already "+string(current))
	}
	return nil
}

func CanReschedule(current Status) error {
	if current.IsTerminal() {
		return httperr.InvalidStateErr("visit_closed", "cannot reschedule a "+string(current)+" visit")
	}
	return nil
}

func CanUpdate(current Status) error {
	if current.IsTerminal() {
		return httperr.InvalidStateErr("visit_closed", "cannot update a "+string(current)+" visit")
	}
	return nil
}
