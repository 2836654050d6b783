package service

import (
	"github.com/cyverse-de/notification-view/common"
	"github.com/cyverse-de/notification-view/model"
)

// Code identifies the outcome of a service operation. The values follow HTTP status codes so that the HTTP layer
// can use them directly.
type Code int

// Recognized result codes.
const (
	CodeOK                 Code = 200
	CodeInvalidArgument    Code = 400
	CodeNotFound           Code = 404
	CodeInternal           Code = 500
	CodeStorageUnavailable Code = 503
)

// Messages used in results. Failure messages are generic; the cause is available in Result.Err.
const (
	MessageOK                 = "success"
	MessageSeen               = "notification marked as seen"
	MessageDeleted            = "notification deleted"
	MessageCreated            = "notification created"
	MessageInvalidArgument    = "invalid request"
	MessageNotFound           = "notification not found"
	MessageStorageUnavailable = "service temporarily unavailable"
	MessageInternal           = "internal server error"
)

// Result is the outcome of a service operation that returns no data.
type Result struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`

	// Err holds the cause of a failure. It's never serialized.
	Err error `json:"-"`
}

// OK returns true if the operation succeeded.
func (r Result) OK() bool {
	return r.Code == CodeOK
}

// ViewResult is the outcome of a request for a user's notification view. Data is never nil when the request
// succeeds.
type ViewResult struct {
	Result
	Data []model.ViewItem `json:"data"`
}

// NotificationResult is the outcome of an operation on a single notification.
type NotificationResult struct {
	Result
	Data *model.Notification `json:"data,omitempty"`
}

func success(message string) Result {
	return Result{Code: CodeOK, Message: message}
}

// failure converts an error to a result, choosing the code from the kind of error.
func failure(err error) Result {
	switch {
	case common.IsInvalidArgument(err):
		return Result{Code: CodeInvalidArgument, Message: MessageInvalidArgument, Err: err}
	case common.IsNotFound(err):
		return Result{Code: CodeNotFound, Message: MessageNotFound, Err: err}
	case common.IsStorageUnavailable(err):
		return Result{Code: CodeStorageUnavailable, Message: MessageStorageUnavailable, Err: err}
	default:
		return Result{Code: CodeInternal, Message: MessageInternal, Err: err}
	}
}
