package host

import "github.com/sirupsen/logrus"

// Logger receives scan diagnostics scoped to the offending location.
type Logger interface {
	Error(scope, message string)
	Warn(scope, message string)
	Info(scope, message string)
}

// Nop discards all diagnostics.
type Nop struct{}

func (Nop) Error(string, string) {}
func (Nop) Warn(string, string)  {}
func (Nop) Info(string, string)  {}

type logrusLogger struct {
	log *logrus.Logger
}

// NewLogrusLogger adapts a logrus logger to the Logger capability. A nil
// argument uses the logrus standard logger.
func NewLogrusLogger(log *logrus.Logger) Logger {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &logrusLogger{log: log}
}

func (l *logrusLogger) Error(scope, message string) {
	l.log.WithField("scope", scope).Error(message)
}

func (l *logrusLogger) Warn(scope, message string) {
	l.log.WithField("scope", scope).Warn(message)
}

func (l *logrusLogger) Info(scope, message string) {
	l.log.WithField("scope", scope).Info(message)
}
