package observers

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/your-org/promptpipe/pkg/backend"
)

// Record is one audit-log line.
type Record struct {
	Timestamp string `json:"ts"`
	Text      string `json:"text"`
	RawBytes  int    `json:"raw_bytes"`
}

// AuditLogger appends one JSONL record per published result. It satisfies
// notify.Observer; a write failure is reported through the publish outcome
// and never disturbs other observers.
type AuditLogger struct {
	mu   sync.Mutex
	path string
}

func NewAuditLogger(path string) *AuditLogger {
	return &AuditLogger{path: path}
}

func (l *AuditLogger) Enabled() bool {
	return l != nil && l.path != ""
}

func (l *AuditLogger) OnEvent(res backend.Result) error {
	if !l.Enabled() {
		return nil
	}

	rec := Record{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Text:      res.Text,
		RawBytes:  len(res.Raw),
	}
	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("audit marshal: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("audit mkdir: %w", err)
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("audit open: %w", err)
	}
	defer func() { _ = f.Close() }()

	if _, err := f.Write(append(b, '\n')); err != nil {
		return fmt.Errorf("audit write: %w", err)
	}
	return nil
}
