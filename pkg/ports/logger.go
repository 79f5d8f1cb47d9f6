package ports

// LogLevel is the minimum severity a Logger emits.
type LogLevel int

const (
	// LevelDebug covers per-task detail: checkpoints, supersession, commits.
	LevelDebug LogLevel = iota
	// LevelInfo covers playback progress reported to the user.
	LevelInfo
	// LevelWarn covers problems the player recovers from, such as a failed reload.
	LevelWarn
	// LevelError covers failures that end a command.
	LevelError
	// LevelQuiet suppresses all output.
	LevelQuiet
)

// String returns the flag spelling of the level.
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelQuiet:
		return "quiet"
	default:
		return "unknown"
	}
}

// ParseLogLevel maps a flag or config value to a LogLevel.
// Unrecognised values fall back to LevelInfo.
func ParseLogLevel(s string) LogLevel {
	switch s {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	case "quiet":
		return LevelQuiet
	default:
		return LevelInfo
	}
}

// Logger is the logging port used by every package in the module.
//
// Messages are lexicon keys: implementations may translate msg before
// formatting it with args.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})

	// WithComponent returns a Logger whose lines are tagged with component.
	WithComponent(component string) Logger
}
