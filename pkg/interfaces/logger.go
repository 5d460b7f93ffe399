package interfaces

import "context"

// Logger is the leveled logger used across folio. Arguments after msg are
// key/value pairs. The method set matches go-logger's glog.Logger minus
// WithFields, which lives on FieldsLogger.
type Logger interface {
	Trace(msg string, args ...any)
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Fatal(msg string, args ...any)
	WithContext(ctx context.Context) Logger
}

// LoggerProvider hands out loggers by module name, e.g. "folio.posts".
type LoggerProvider interface {
	GetLogger(name string) Logger
}

// FieldsLogger attaches fields to every entry written by the returned logger.
type FieldsLogger interface {
	WithFields(fields map[string]any) Logger
}
