package core

// Logger is any leveled logging service.
// Args may carry anything printable; implementations may pick out
// well-known types (eg. the acting user) for extra reporting context.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
