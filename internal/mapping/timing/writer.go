package timing

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/meridian-robotics/voxmap/internal/monitoring"
)

// Exchange event directions recorded in the timing logs.
const (
	DirectionSent     = "sent"
	DirectionReceived = "received"
)

// Writer appends exchange timing events to two per-run log files: a
// compact event-line log (one line per event: wall-time nanos, submap
// count, direction) and a verbose log carrying the full stage-timing dump
// per event. File names embed a process-start run id so concurrent runs
// never collide.
//
// Writing is best-effort: failures are logged once and never escalate.
type Writer struct {
	dir    string
	runID  string
	ledger *Ledger
	warned bool
}

// NewWriter creates a Writer appending under dir. An empty dir disables
// writing entirely.
func NewWriter(dir string, ledger *Ledger) *Writer {
	runID := fmt.Sprintf("%s_%s",
		time.Now().UTC().Format("20060102T150405Z"),
		strings.Split(uuid.New().String(), "-")[0])
	return &Writer{dir: dir, runID: runID, ledger: ledger}
}

// RunID returns the process-start identifier embedded in the log names.
func (w *Writer) RunID() string {
	return w.runID
}

// EventLogPath returns the compact event log path, or "" when disabled.
func (w *Writer) EventLogPath() string {
	if w.dir == "" {
		return ""
	}
	return filepath.Join(w.dir, "network_timing_"+w.runID+".txt")
}

// StageLogPath returns the verbose stage log path, or "" when disabled.
func (w *Writer) StageLogPath() string {
	if w.dir == "" {
		return ""
	}
	return filepath.Join(w.dir, "process_timing_"+w.runID+".txt")
}

// WriteEvent appends one exchange event to both logs. No-op when no
// output directory is configured.
func (w *Writer) WriteEvent(direction string, submapCount int, wallTime time.Time) {
	if w == nil || w.dir == "" {
		return
	}

	eventLine := fmt.Sprintf("%d %d %s\n", wallTime.UnixNano(), submapCount, direction)
	w.append(w.EventLogPath(), eventLine)

	var stageBlock strings.Builder
	fmt.Fprintf(&stageBlock, "%s %d\n", direction, submapCount)
	if w.ledger != nil {
		stageBlock.WriteString(w.ledger.Print())
	}
	stageBlock.WriteString("\n")
	w.append(w.StageLogPath(), stageBlock.String())
}

func (w *Writer) append(path, content string) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		w.warnOnce(err)
		return
	}
	defer f.Close()
	if _, err := f.WriteString(content); err != nil {
		w.warnOnce(err)
	}
}

// warnOnce logs the first write failure; timing output is diagnostic and
// must never disturb the pipeline.
func (w *Writer) warnOnce(err error) {
	if w.warned {
		return
	}
	w.warned = true
	monitoring.Logf("timing log write failed (suppressing further warnings): %v", err)
}
