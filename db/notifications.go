package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/cyverse-de/notification-view/common"
	"github.com/cyverse-de/notification-view/model"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	sq "github.com/Masterminds/squirrel"
)

// notificationColumns lists the columns selected for every notification query, in scan order.
var notificationColumns = []string{
	"id::text",
	"title",
	"body",
	"type",
	"schedule_time",
	"recipients",
	"status",
	"created_by",
	"updated_by",
	"created_at",
	"updated_at",
	"deleted_at",
}

// rowScanner is implemented by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanNotification loads a single notification from a row.
func scanNotification(row rowScanner) (*model.Notification, error) {
	var n model.Notification
	var notificationType, status string
	var scheduleTime, deletedAt sql.NullTime
	var updatedBy sql.NullString

	err := row.Scan(
		&n.ID,
		&n.Title,
		&n.Body,
		&notificationType,
		&scheduleTime,
		&n.Recipients,
		&status,
		&n.CreatedBy,
		&updatedBy,
		&n.CreatedAt,
		&n.UpdatedAt,
		&deletedAt,
	)
	if err != nil {
		return nil, err
	}

	n.Type = model.NotificationType(notificationType)
	n.Status = model.NotificationStatus(status)
	if scheduleTime.Valid {
		n.ScheduleTime = &scheduleTime.Time
	}
	if updatedBy.Valid {
		n.UpdatedBy = &updatedBy.String
	}
	if deletedAt.Valid {
		n.DeletedAt = &deletedAt.Time
	}

	return &n, nil
}

// SaveNotification adds a notification to the catalog, filling in the identifier and timestamps assigned by the
// database.
func SaveNotification(ctx context.Context, q Querier, notification *model.Notification) error {
	wrapMsg := "unable to save notification"

	var scheduleTime, updatedBy interface{}
	if notification.ScheduleTime != nil {
		scheduleTime = *notification.ScheduleTime
	}
	if notification.UpdatedBy != nil {
		updatedBy = *notification.UpdatedBy
	}

	// Build the insert statement.
	statement, args, err := psql.
		Insert("notifications").
		Columns(
			"title",
			"body",
			"type",
			"schedule_time",
			"recipients",
			"status",
			"created_by",
			"updated_by").
		Values(
			notification.Title,
			notification.Body,
			string(notification.Type),
			scheduleTime,
			notification.Recipients,
			string(notification.Status),
			notification.CreatedBy,
			updatedBy).
		Suffix("RETURNING id::text, created_at, updated_at").
		ToSql()
	if err != nil {
		return wrapError(err, wrapMsg)
	}

	// Execute the insert statement, scanning the generated values into the notification.
	row := q.QueryRowContext(ctx, statement, args...)
	err = row.Scan(&notification.ID, &notification.CreatedAt, &notification.UpdatedAt)
	return wrapError(err, wrapMsg)
}

// GetNotification returns the notification with the given identifier. A NotFoundError is returned if the
// notification doesn't exist.
func GetNotification(ctx context.Context, q Querier, id string) (*model.Notification, error) {
	wrapMsg := fmt.Sprintf("unable to look up notification `%s`", id)

	// Notification identifiers are always UUIDs, so nothing else can match.
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.NewNotFoundError("notification `%s` not found", id)
	}

	// Build the query.
	query, args, err := psql.
		Select(notificationColumns...).
		From("notifications").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, wrapError(err, wrapMsg)
	}

	// Query the database.
	notification, err := scanNotification(q.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.NewNotFoundError("notification `%s` not found", id)
	}
	if err != nil {
		return nil, wrapError(err, wrapMsg)
	}

	return notification, nil
}

// ListCandidateNotifications returns the notifications addressed to a user, either explicitly or through the
// recipient wildcard, in the order in which they were added to the catalog. The user ID is expected to be in
// canonical form already.
func ListCandidateNotifications(ctx context.Context, q Querier, userID string) ([]model.Notification, error) {
	wrapMsg := fmt.Sprintf("unable to list the notifications addressed to `%s`", userID)

	wildcard, err := model.AllRecipients().Value()
	if err != nil {
		return nil, wrapError(err, wrapMsg)
	}

	// Build the query.
	query, args, err := psql.
		Select(notificationColumns...).
		From("notifications").
		Where(sq.Or{
			sq.Expr("recipients = ?::jsonb", wildcard),
			sq.Expr("recipients @> jsonb_build_array(?::text)", userID),
		}).
		OrderBy("created_at", "seq").
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

	// Load the notifications.
	notifications := make([]model.Notification, 0)
	for rows.Next() {
		notification, err := scanNotification(rows)
		if err != nil {
			return nil, wrapError(err, wrapMsg)
		}
		notifications = append(notifications, *notification)
	}
	if err = rows.Err(); err != nil {
		return nil, wrapError(err, wrapMsg)
	}

	return notifications, nil
}

// NotificationStore is the catalog of notification definitions and their addressees.
type NotificationStore struct {
	db Querier
}

// NewNotificationStore returns a notification store backed by the given database.
func NewNotificationStore(db Querier) *NotificationStore {
	return &NotificationStore{db: db}
}

// Create validates a notification, converts its identifiers to canonical form and adds it to the catalog.
func (s *NotificationStore) Create(ctx context.Context, notification *model.Notification) error {
	if strings.TrimSpace(notification.Title) == "" {
		return common.NewInvalidArgumentError("a notification title is required")
	}

	// Apply defaults and validate the enumerated fields.
	if notification.Type == "" {
		notification.Type = model.NotificationTypeInfo
	}
	if !notification.Type.IsValid() {
		return common.NewInvalidArgumentError("unrecognized notification type: `%s`", notification.Type)
	}
	if notification.Status == "" {
		notification.Status = model.NotificationStatusPending
	}
	if !notification.Status.IsValid() {
		return common.NewInvalidArgumentError("unrecognized notification status: `%s`", notification.Status)
	}

	// Store every identifier in canonical form.
	createdBy, err := common.CanonicalID(notification.CreatedBy)
	if err != nil {
		return common.NewInvalidArgumentError("the creator of the notification is required: %s", err.Error())
	}
	notification.CreatedBy = createdBy
	recipients, err := notification.Recipients.Canonical()
	if err != nil {
		return common.NewInvalidArgumentError("%s", err.Error())
	}
	notification.Recipients = recipients

	return SaveNotification(ctx, s.db, notification)
}

// FindByID returns the notification with the given identifier, which may be a typed reference or a string.
func (s *NotificationStore) FindByID(ctx context.Context, id interface{}) (*model.Notification, error) {
	canonicalID, err := common.CanonicalID(id)
	if err != nil {
		return nil, common.NewInvalidArgumentError("a notification ID is required: %s", err.Error())
	}
	return GetNotification(ctx, s.db, canonicalID)
}

// CandidatesForUser returns the notifications addressed to a user, in the order in which they were created. The
// user ID may be a typed reference or a string.
func (s *NotificationStore) CandidatesForUser(ctx context.Context, userID interface{}) ([]model.Notification, error) {
	canonicalUserID, err := common.CanonicalID(userID)
	if err != nil {
		return nil, common.NewInvalidArgumentError("a user ID is required: %s", err.Error())
	}
	return ListCandidateNotifications(ctx, s.db, canonicalUserID)
}
