package monitor

import (
	"fmt"
	"os"
	"path/filepath"
)

// sessionLog is the per-session append-only log file. Each session owns its
// file exclusively, so there is a single writer and no truncation: the file
// is opened with O_APPEND and only ever written at the end.
type sessionLog struct {
	f     *os.File
	clock Clock
}

func openSessionLog(path string, clock Clock) (*sessionLog, error) {
	if path == "" {
		return &sessionLog{clock: clock}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	return &sessionLog{f: f, clock: clock}, nil
}

// printf appends one timestamped line. Lines exist for human inspection
// only; no other component parses them.
func (l *sessionLog) printf(format string, args ...any) {
	if l.f == nil {
		return
	}
	fmt.Fprintf(l.f, "[%s] %s\n",
		l.clock.Now().Format("2006-01-02 15:04:05"),
		fmt.Sprintf(format, args...))
}

func (l *sessionLog) close() {
	if l.f != nil {
		l.f.Close()
	}
}
