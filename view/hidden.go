package view

import (
	"github.com/cyverse-de/notification-view/model"
)

// HiddenPredicate decides whether a notification should be left out of a user's view. It receives the canonical
// ID of the requesting user and every log entry referring to the notification, from all users.
type HiddenPredicate func(userID string, entries []model.EventLogEntry) bool

// HiddenForEveryone hides a notification from every user once any user has deleted it. This is the default
// delete scope.
func HiddenForEveryone(_ string, entries []model.EventLogEntry) bool {
	for _, entry := range entries {
		if entry.Action == model.ActionDeleted {
			return true
		}
	}
	return false
}

// HiddenForUser hides a notification only from the users who have deleted it.
func HiddenForUser(userID string, entries []model.EventLogEntry) bool {
	return hasAction(userID, entries, model.ActionDeleted)
}

// hasAction returns true if the user has recorded the given action in any of the entries. Duplicate entries
// don't matter; only their presence does.
func hasAction(userID string, entries []model.EventLogEntry, action model.Action) bool {
	for _, entry := range entries {
		if entry.Action == action && entry.UserID == userID {
			return true
		}
	}
	return false
}

// Delete scopes accepted by HiddenPredicateFor.
const (
	DeleteScopeGlobal = "global"
	DeleteScopeUser   = "user"
)

// HiddenPredicateFor returns the predicate for a delete scope name. The second return value is false if the
// name isn't recognized.
func HiddenPredicateFor(scope string) (HiddenPredicate, bool) {
	switch scope {
	case DeleteScopeGlobal, "":
		return HiddenForEveryone, true
	case DeleteScopeUser:
		return HiddenForUser, true
	default:
		return nil, false
	}
}
