// Package view derives each user's notification view from the notification catalog and the event log.
package view

import (
	"context"
	"sort"

	"github.com/cyverse-de/notification-view/common"
	"github.com/cyverse-de/notification-view/model"
	"github.com/pkg/errors"
)

// CandidateSource lists the notifications addressed to a user.
type CandidateSource interface {
	CandidatesForUser(ctx context.Context, userID interface{}) ([]model.Notification, error)
}

// EventSource lists the event log entries referring to a set of notifications.
type EventSource interface {
	EntriesForNotifications(ctx context.Context, notificationIDs []string) ([]model.EventLogEntry, error)
}

// Reconciler combines the notification catalog and the event log into per-user views.
type Reconciler struct {
	candidates CandidateSource
	events     EventSource
	hidden     HiddenPredicate
}

// NewReconciler returns a reconciler that reads from the given sources. A nil predicate selects
// HiddenForEveryone.
func NewReconciler(candidates CandidateSource, events EventSource, hidden HiddenPredicate) *Reconciler {
	if hidden == nil {
		hidden = HiddenForEveryone
	}
	return &Reconciler{candidates: candidates, events: events, hidden: hidden}
}

// View returns the notifications currently visible to a user, newest first, each marked with whether the user
// has seen it. The user ID may be a typed reference or a string. Storage errors are returned unchanged in kind.
func (r *Reconciler) View(ctx context.Context, userID interface{}) (_ []model.ViewItem, err error) {
	ctx, span := common.StartSpan(ctx, "Reconciler.View")
	defer func() { common.EndSpan(span, err) }()

	canonicalUserID, err := common.CanonicalID(userID)
	if err != nil {
		return nil, common.NewInvalidArgumentError("a user ID is required: %s", err.Error())
	}

	candidates, err := r.candidates.CandidatesForUser(ctx, canonicalUserID)
	if err != nil {
		return nil, errors.Wrap(err, "unable to list candidate notifications")
	}
	if len(candidates) == 0 {
		return []model.ViewItem{}, nil
	}

	ids := make([]string, 0, len(candidates))
	for i := range candidates {
		if id := common.MustCanonicalID(candidates[i].ID); id != "" {
			ids = append(ids, id)
		}
	}
	entries, err := r.events.EntriesForNotifications(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "unable to list notification events")
	}

	return Reconcile(canonicalUserID, candidates, entries, r.hidden), nil
}

// Reconcile derives a user's view from the notifications addressed to the user and the log entries referring to
// them. It doesn't modify its arguments and has no side effects.
//
// Entries are grouped by notification in a single pass. Entries referring to notifications that aren't among the
// candidates are ignored, and repeated entries count only once. Candidates with the same ID are reported once, at
// the position of the first occurrence. The soft-delete marker on a notification isn't consulted.
func Reconcile(
	userID string,
	candidates []model.Notification,
	entries []model.EventLogEntry,
	hidden HiddenPredicate,
) []model.ViewItem {
	if hidden == nil {
		hidden = HiddenForEveryone
	}
	userID = common.MustCanonicalID(userID)

	// Group the entries by notification.
	entriesFor := make(map[string][]model.EventLogEntry, len(candidates))
	for _, entry := range entries {
		notificationID := common.MustCanonicalID(entry.NotificationID)
		if notificationID == "" {
			continue
		}
		entry.NotificationID = notificationID
		entry.UserID = common.MustCanonicalID(entry.UserID)
		entriesFor[notificationID] = append(entriesFor[notificationID], entry)
	}

	// Build the list of visible notifications.
	visible := make([]*model.Notification, 0, len(candidates))
	seen := make(map[string]bool, len(candidates))
	included := make(map[string]bool, len(candidates))
	for i := range candidates {
		notificationID := common.MustCanonicalID(candidates[i].ID)
		if notificationID == "" || included[notificationID] {
			continue
		}
		included[notificationID] = true

		notificationEntries := entriesFor[notificationID]
		if hidden(userID, notificationEntries) {
			continue
		}
		seen[notificationID] = hasAction(userID, notificationEntries, model.ActionSeen)
		visible = append(visible, &candidates[i])
	}

	// Newest first. Notifications created at the same time stay in catalog order.
	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].CreatedAt.After(visible[j].CreatedAt)
	})

	result := make([]model.ViewItem, len(visible))
	for i, notification := range visible {
		result[i] = model.ViewItemFor(notification, seen[common.MustCanonicalID(notification.ID)])
	}
	return result
}
