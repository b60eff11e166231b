package gls

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"time"
)

// Logger is the CORE's dual-channel logging surface: a human-readable
// console stream plus a structured JSONL event stream, ported from
// keycraft's BLSLogger/LogEvent pattern (SPEC_FULL.md's ambient stack).
// Either writer may be nil to disable that channel.
type Logger struct {
	console   io.Writer
	file      io.Writer
	startTime time.Time
}

func NewLogger(console, file io.Writer) *Logger {
	return &Logger{console: console, file: file, startTime: time.Now()}
}

// Event is one JSONL log entry. Fields are pointers/omitempty so a given
// event only serializes the fields relevant to it, matching keycraft's
// LogEvent shape.
type Event struct {
	Event     string    `json:"event"`
	Timestamp time.Time `json:"timestamp"`
	ElapsedMs int64     `json:"elapsed_ms"`

	StripWidth     *float64 `json:"strip_width,omitempty"`
	TotalLoss      *float64 `json:"total_loss,omitempty"`
	Density        *float64 `json:"density,omitempty"`
	Strike         *int     `json:"strike,omitempty"`
	IterNoImprove  *int     `json:"iter_no_improve,omitempty"`
	CompressFailed *int     `json:"compress_failures,omitempty"`
	ShrinkRatio    *float64 `json:"shrink_ratio,omitempty"`

	Message string `json:"message,omitempty"`
}

func (l *Logger) writeJSON(e Event) {
	if l.file == nil {
		return
	}
	e.Timestamp = time.Now()
	e.ElapsedMs = time.Since(l.startTime).Milliseconds()
	data, err := json.Marshal(e)
	if err != nil {
		return
	}
	data = append(data, '\n')
	if _, err := l.file.Write(data); err != nil {
		log.Printf("gls: writing log event: %v", err)
	}
}

func (l *Logger) printf(format string, args ...interface{}) {
	if l.console == nil {
		return
	}
	if _, err := fmt.Fprintf(l.console, format, args...); err != nil {
		log.Printf("gls: writing console log: %v", err)
	}
}

// LogShrink records a successful strip-width shrink.
func (l *Logger) LogShrink(width float64) {
	l.printf("shrink: new width %.3f\n", width)
	l.writeJSON(Event{Event: "shrink", StripWidth: &width})
}

// LogStrike records a Separator strike (an outer iteration with no
// meaningful progress against the best absolute loss, per GLOSSARY).
func (l *Logger) LogStrike(strike int, loss float64) {
	l.printf("strike %d: total loss %.4f\n", strike, loss)
	l.writeJSON(Event{Event: "strike", Strike: &strike, TotalLoss: &loss})
}

// LogFeasible records a feasible (zero-loss) solution at the given width.
func (l *Logger) LogFeasible(width, density float64) {
	l.printf("feasible solution: width %.3f, density %.4f\n", width, density)
	l.writeJSON(Event{Event: "feasible", StripWidth: &width, Density: &density})
}

// LogCompress records one Compress-phase attempt outcome.
func (l *Logger) LogCompress(ratio float64, failures int, ok bool) {
	status := "accepted"
	if !ok {
		status = "rejected"
	}
	l.printf("compress: ratio %.5f, failures %d: %s\n", ratio, failures, status)
	l.writeJSON(Event{Event: "compress", ShrinkRatio: &ratio, CompressFailed: &failures, Message: status})
}

func (l *Logger) LogMessage(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	l.printf("%s\n", msg)
	l.writeJSON(Event{Event: "message", Message: msg})
}
