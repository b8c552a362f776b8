package sync

import (
	"github.com/AdamSweetapple/garmin-to-notion/internal/notion"
)

// Action is the reconciler's verdict for one date.
type Action int

const (
	ActionNone Action = iota
	ActionCreate
	ActionUpdate
)

func (a Action) String() string {
	switch a {
	case ActionCreate:
		return "create"
	case ActionUpdate:
		return "update"
	default:
		return "no-op"
	}
}

// Decision pairs an action with the page it applies to, when one exists.
type Decision struct {
	Action Action
	PageID string
}

// Reconcile compares the stored record (nil when none exists) against a
// fresh snapshot and decides whether to create, update, or leave it alone.
func Reconcile(rec *notion.Record, snap Snapshot) Decision {
	if rec == nil {
		return Decision{Action: ActionCreate}
	}
	if needsUpdate(rec, snap) {
		return Decision{Action: ActionUpdate, PageID: rec.PageID}
	}
	return Decision{Action: ActionNone, PageID: rec.PageID}
}

// needsUpdate reports whether any synced field changed. A record that has
// the water property is compared numerically even when the value is empty;
// a record without the property only forces an update when the snapshot
// actually has water logged.
func needsUpdate(rec *notion.Record, snap Snapshot) bool {
	if rec.CaloriesIn != snap.CaloriesIn ||
		rec.CaloriesOut != snap.CaloriesOut ||
		rec.NetCalories != snap.NetCalories ||
		rec.ProteinG != snap.ProteinG ||
		rec.CarbsG != snap.CarbsG ||
		rec.FatsG != snap.FatsG {
		return true
	}
	if rec.HasWater {
		return rec.WaterML != snap.WaterML
	}
	return snap.WaterML > 0
}
