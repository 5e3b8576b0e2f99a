// Package log provides a pub/sub event logger for the compositing and
// Art-Net pipeline.
//
// API inspired by zerolog: https://github.com/rs/zerolog
package log

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// Level defines log severity.
type Level uint8

// Logging constants.
const (
	LevelDebug   Level = 10
	LevelInfo    Level = 20
	LevelWarning Level = 30
	LevelError   Level = 40
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarning:
		return "WARNING"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel parses a config-file log level string.
func ParseLevel(s string) (Level, error) {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return LevelDebug, nil
	case "INFO":
		return LevelInfo, nil
	case "WARNING":
		return LevelWarning, nil
	case "ERROR", "CRITICAL":
		return LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level: %v", s)
	}
}

// UnixMicro is a timestamp in microseconds since epoch.
type UnixMicro int64

// Entry is a single log record.
type Entry struct {
	Level  Level
	Time   UnixMicro
	Msg    string
	Src    string // subsystem: "compositor", "transport", "artnet", "output"...
	Player string // originating player name, if any
	Output string // originating output id, if any
}

// Event is a log entry under construction. Must be terminated with Msg/Msgf.
type Event struct {
	level  Level
	time   UnixMicro
	src    string
	player string
	output string

	logger *Logger
}

// Src sets the event's subsystem source.
func (e *Event) Src(source string) *Event {
	e.src = source
	return e
}

// Player tags the event with the originating player name.
func (e *Event) Player(name string) *Event {
	e.player = name
	return e
}

// Output tags the event with the originating output id.
func (e *Event) Output(id string) *Event {
	e.output = id
	return e
}

// Msg sends the event with msg as the message field.
func (e *Event) Msg(msg string) {
	entry := Entry{
		Time:   e.time,
		Level:  e.level,
		Msg:    msg,
		Src:    e.src,
		Player: e.player,
		Output: e.output,
	}
	e.logger.feed <- entry
}

// Msgf sends the event with a formatted message.
func (e *Event) Msgf(format string, v ...interface{}) {
	e.Msg(fmt.Sprintf(format, v...))
}

type feed chan Entry

// Logger fans Entry values out to subscribers and optional sinks.
type Logger struct {
	feed  feed
	sub   chan feed
	unsub chan feed

	wg *sync.WaitGroup
}

// NewLogger returns a Logger. Start must be called before use.
func NewLogger(wg *sync.WaitGroup) *Logger {
	return &Logger{
		feed:  make(feed),
		sub:   make(chan feed),
		unsub: make(chan feed),
		wg:    wg,
	}
}

// Start runs the distribution loop until ctx is canceled.
func (l *Logger) Start(ctx context.Context) {
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		subs := map[feed]struct{}{}
		for {
			select {
			case <-ctx.Done():
				return
			case ch := <-l.sub:
				subs[ch] = struct{}{}
			case ch := <-l.unsub:
				close(ch)
				delete(subs, ch)
			case entry := <-l.feed:
				for ch := range subs {
					ch <- entry
				}
			}
		}
	}()
}

// CancelFunc cancels a log feed subscription.
type CancelFunc func()

// Subscribe returns a channel of log entries and a cancel function.
func (l *Logger) Subscribe() (<-chan Entry, CancelFunc) {
	ch := make(feed)
	l.sub <- ch
	return ch, func() { l.unSubscribe(ch) }
}

func (l *Logger) unSubscribe(ch feed) {
	for {
		select {
		case l.unsub <- ch:
			return
		case <-ch:
		}
	}
}

// LogToStdout prints every entry to stdout until ctx is canceled.
func (l *Logger) LogToStdout(ctx context.Context) {
	feed, cancel := l.Subscribe()
	defer cancel()
	for {
		select {
		case entry := <-feed:
			fmt.Println(format(entry))
		case <-ctx.Done():
			return
		}
	}
}

func format(e Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%v] ", e.Level)
	if e.Player != "" {
		fmt.Fprintf(&b, "%v: ", e.Player)
	}
	if e.Src != "" {
		fmt.Fprintf(&b, "%v: ", e.Src)
	}
	b.WriteString(e.Msg)
	return b.String()
}

func now() UnixMicro {
	return UnixMicro(time.Now().UnixNano() / 1000)
}

// Error starts a new error-level event.
func (l *Logger) Error() *Event { return &Event{level: LevelError, time: now(), logger: l} }

// Warn starts a new warning-level event.
func (l *Logger) Warn() *Event { return &Event{level: LevelWarning, time: now(), logger: l} }

// Info starts a new info-level event.
func (l *Logger) Info() *Event { return &Event{level: LevelInfo, time: now(), logger: l} }

// Debug starts a new debug-level event.
func (l *Logger) Debug() *Event { return &Event{level: LevelDebug, time: now(), logger: l} }
