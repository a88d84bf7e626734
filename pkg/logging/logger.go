package logging

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
)

// Logger is the leveled logger shared by every component.
type Logger interface {
	Panic(format string, v ...any)
	Error(format string, v ...any)
	Warning(format string, v ...any)
	Info(format string, v ...any)
	Debug(format string, v ...any)
	// CopyWithPrefix returns a logger that prepends prefix to every line.
	CopyWithPrefix(prefix string) Logger
	// SupportColor reports whether the output understands ANSI colors.
	SupportColor() bool
}

// LoggerCtx is the context key of the request scoped logger.
type LoggerCtx struct{}

// CorrelationIDCtx is the context key of the request correlation ID.
type CorrelationIDCtx struct{}

type LogLevel string

const (
	LevelError         LogLevel = "error"
	LevelWarning       LogLevel = "warning"
	LevelInformational LogLevel = "info"
	LevelDebug         LogLevel = "debug"
)

// ParseLevel maps a config value to a LogLevel, falling back to info.
func ParseLevel(s string) LogLevel {
	switch LogLevel(strings.ToLower(strings.TrimSpace(s))) {
	case LevelError:
		return LevelError
	case LevelWarning, "warn":
		return LevelWarning
	case LevelDebug:
		return LevelDebug
	default:
		return LevelInformational
	}
}

// NewConsoleLogger returns a logger printing to stdout.
func NewConsoleLogger(level LogLevel) Logger {
	return NewLogger(level, color.Output)
}

// NewLogger returns a logger writing to out, dropping lines below level.
func NewLogger(level LogLevel, out io.Writer) Logger {
	logger := &consoleLogger{
		out:     out,
		mu:      &sync.Mutex{},
		panic:   panicFunc,
		error:   printFunc("Error"),
		warning: printFunc("Warn"),
		info:    printFunc("Info"),
		debug:   printFunc("Debug"),
	}

	switch level {
	case LevelError:
		logger.warning = noopLoggingFunc
		logger.info = noopLoggingFunc
		logger.debug = noopLoggingFunc
	case LevelWarning:
		logger.info = noopLoggingFunc
		logger.debug = noopLoggingFunc
	case LevelInformational:
		logger.debug = noopLoggingFunc
	}

	return logger
}

// FromContext retrieves a logger from context.
func FromContext(ctx context.Context) Logger {
	v, ok := ctx.Value(LoggerCtx{}).(Logger)
	if !ok {
		v = NewConsoleLogger(LevelDebug)
	}
	return v
}

// CorrelationID retrieves a correlation ID from context.
func CorrelationID(ctx context.Context) uuid.UUID {
	v, ok := ctx.Value(CorrelationIDCtx{}).(uuid.UUID)
	if !ok {
		v = uuid.Nil
	}
	return v
}

type loggingFunc func(*consoleLogger, string, ...any)

type consoleLogger struct {
	out    io.Writer
	mu     *sync.Mutex
	prefix string

	panic   loggingFunc
	error   loggingFunc
	warning loggingFunc
	info    loggingFunc
	debug   loggingFunc
}

func (ll *consoleLogger) Panic(format string, v ...any)   { ll.panic(ll, format, v...) }
func (ll *consoleLogger) Error(format string, v ...any)   { ll.error(ll, format, v...) }
func (ll *consoleLogger) Warning(format string, v ...any) { ll.warning(ll, format, v...) }
func (ll *consoleLogger) Info(format string, v ...any)    { ll.info(ll, format, v...) }
func (ll *consoleLogger) Debug(format string, v ...any)   { ll.debug(ll, format, v...) }

func (ll *consoleLogger) println(level string, msg string) {
	_, filename, line, _ := runtime.Caller(3)
	tag := "[" + level + "]"
	if ll.SupportColor() {
		tag = colors[level](tag)
	}

	ll.mu.Lock()
	defer ll.mu.Unlock()
	_, _ = fmt.Fprintf(
		ll.out,
		"%s\t %s [%s:%d]%s %s\n",
		tag,
		time.Now().Format("2006-01-02 15:04:05"),
		shortFile(filename),
		line,
		ll.prefix,
		msg,
	)
}

func (ll *consoleLogger) CopyWithPrefix(prefix string) Logger {
	cp := *ll
	cp.prefix = ll.prefix + " " + prefix
	return &cp
}

func (ll *consoleLogger) SupportColor() bool {
	return ll.out == color.Output && !color.NoColor
}

func printFunc(level string) loggingFunc {
	return func(logger *consoleLogger, s string, a ...any) {
		logger.println(level, fmt.Sprintf(s, a...))
	}
}

func panicFunc(logger *consoleLogger, s string, a ...any) {
	msg := fmt.Sprintf(s, a...)
	logger.println("Panic", msg)
	panic(msg)
}

func noopLoggingFunc(*consoleLogger, string, ...any) {}

// shortFile keeps the last two path elements of a source file.
func shortFile(file string) string {
	idx := strings.LastIndex(file, "/")
	if idx <= 0 {
		return file
	}
	if prev := strings.LastIndex(file[:idx], "/"); prev >= 0 {
		return file[prev+1:]
	}
	return file
}

var colors = map[string]func(a ...interface{}) string{
	"Warn":  color.New(color.FgYellow).Add(color.Bold).SprintFunc(),
	"Panic": color.New(color.BgRed).Add(color.Bold).SprintFunc(),
	"Error": color.New(color.FgRed).Add(color.Bold).SprintFunc(),
	"Info":  color.New(color.FgCyan).Add(color.Bold).SprintFunc(),
	"Debug": color.New(color.FgWhite).Add(color.Bold).SprintFunc(),
}

// Request logs one served HTTP request.
func Request(l Logger, code int, method, clientIP, path, err string, start time.Time) {
	param := gin.LogFormatterParams{
		StatusCode: code,
		Method:     method,
	}

	var statusColor, methodColor, resetColor string
	if l.SupportColor() {
		statusColor = param.StatusCodeColor()
		methodColor = param.MethodColor()
		resetColor = param.ResetColor()
	}

	l.Info(
		"%s %3d %s| %13v | %15s |%s %-7s %s %#v",
		statusColor, code, resetColor,
		time.Since(start),
		clientIP,
		methodColor, method, resetColor,
		path,
	)
	if err != "" {
		l.Error("%s", err)
	}
}
