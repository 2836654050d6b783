package common

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// ServiceName is the name used to identify this service in logs and traces.
const ServiceName = "notification-view"

// Log is the base log entry used throughout the service.
var Log = logrus.WithFields(logrus.Fields{"service": ServiceName})

// SetLogLevel sets the log level from its name, leaving the current level in place if the name isn't recognized.
func SetLogLevel(levelName string) {
	level, err := logrus.ParseLevel(strings.TrimSpace(levelName))
	if err != nil {
		Log.Warnf("unrecognized log level `%s`; leaving the log level unchanged", levelName)
		return
	}
	logrus.SetLevel(level)
}
