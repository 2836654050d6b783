package db

import (
	"context"
	"fmt"
	"time"

	"github.com/cyverse-de/notification-view/common"
	"github.com/cyverse-de/notification-view/model"

	sq "github.com/Masterminds/squirrel"
)

// eventColumns lists the columns selected for every event log query, in scan order.
var eventColumns = []string{"user_id", "notification_id", "action", "timestamp"}

// AppendEvent adds a single entry to the notification event log. Entries are never updated or removed, and no
// uniqueness constraint is enforced, so recording the same action twice produces two entries.
func AppendEvent(ctx context.Context, q Querier, entry *model.EventLogEntry) error {
	wrapMsg := fmt.Sprintf("unable to record the `%s` event for notification `%s`", entry.Action, entry.NotificationID)

	// Build the insert statement.
	statement, args, err := psql.
		Insert("notification_events").
		Columns(eventColumns...).
		Values(entry.UserID, entry.NotificationID, string(entry.Action), entry.Timestamp).
		ToSql()
	if err != nil {
		return wrapError(err, wrapMsg)
	}

	// Execute the statement.
	_, err = q.ExecContext(ctx, statement, args...)
	return wrapError(err, wrapMsg)
}

// ListEvents returns every entry in the event log that refers to one of the given notifications, regardless of
// which user recorded it. Entries are returned oldest first.
func ListEvents(ctx context.Context, q Querier, notificationIDs []string) ([]model.EventLogEntry, error) {
	wrapMsg := "unable to list notification events"

	// There's nothing to look up if no notification IDs were provided.
	if len(notificationIDs) == 0 {
		return []model.EventLogEntry{}, nil
	}

	// Build the query.
	query, args, err := psql.
		Select(eventColumns...).
		From("notification_events").
		Where(sq.Eq{"notification_id": notificationIDs}).
		OrderBy("timestamp").
		ToSql()
	if err != nil {
		return nil, wrapError(err, wrapMsg)
	}

	// Query the database.
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapError(err, wrapMsg)
	}
	defer rows.Close()

	// Load the entries.
	entries := make([]model.EventLogEntry, 0)
	for rows.Next() {
		var entry model.EventLogEntry
		var action string
		err = rows.Scan(&entry.UserID, &entry.NotificationID, &action, &entry.Timestamp)
		if err != nil {
			return nil, wrapError(err, wrapMsg)
		}
		entry.Action = model.Action(action)
		entries = append(entries, entry)
	}
	if err = rows.Err(); err != nil {
		return nil, wrapError(err, wrapMsg)
	}

	return entries, nil
}

// EventLog is the durable, append-only record of user actions against notifications.
type EventLog struct {
	db  Querier
	now func() time.Time
}

// NewEventLog returns an event log backed by the given database.
func NewEventLog(db Querier) *EventLog {
	return &EventLog{db: db, now: time.Now}
}

// Append records a single action taken by a user against a notification. The user and notification identifiers
// may be typed references or strings; they're stored in canonical form.
func (l *EventLog) Append(
	ctx context.Context,
	userID, notificationID interface{},
	action model.Action,
) (_ *model.EventLogEntry, err error) {
	ctx, span := common.StartSpan(ctx, "EventLog.Append")
	defer func() { common.EndSpan(span, err) }()

	canonicalUserID, err := common.CanonicalID(userID)
	if err != nil {
		return nil, common.NewInvalidArgumentError("a user ID is required: %s", err.Error())
	}
	canonicalNotificationID, err := common.CanonicalID(notificationID)
	if err != nil {
		return nil, common.NewInvalidArgumentError("a notification ID is required: %s", err.Error())
	}
	if !action.IsValid() {
		return nil, common.NewInvalidArgumentError("unrecognized action: `%s`", action)
	}

	entry := &model.EventLogEntry{
		UserID:         canonicalUserID,
		NotificationID: canonicalNotificationID,
		Action:         action,
		Timestamp:      l.now().UTC(),
	}
	if err = AppendEvent(ctx, l.db, entry); err != nil {
		return nil, err
	}

	return entry, nil
}

// EntriesFor returns every entry referring to a single notification, across all users.
func (l *EventLog) EntriesFor(ctx context.Context, notificationID interface{}) ([]model.EventLogEntry, error) {
	canonicalNotificationID, err := common.CanonicalID(notificationID)
	if err != nil {
		return nil, common.NewInvalidArgumentError("a notification ID is required: %s", err.Error())
	}
	return ListEvents(ctx, l.db, []string{canonicalNotificationID})
}

// EntriesForNotifications returns every entry referring to any of the given notifications in a single query.
func (l *EventLog) EntriesForNotifications(ctx context.Context, notificationIDs []string) ([]model.EventLogEntry, error) {
	canonicalIDs := make([]string, len(notificationIDs))
	for i, id := range notificationIDs {
		canonicalID, err := common.CanonicalID(id)
		if err != nil {
			return nil, common.NewInvalidArgumentError("invalid notification ID at position %d: %s", i, err.Error())
		}
		canonicalIDs[i] = canonicalID
	}
	return ListEvents(ctx, l.db, canonicalIDs)
}
