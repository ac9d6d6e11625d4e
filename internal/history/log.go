package history

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"jobs-analytics/internal/common"
	"jobs-analytics/internal/entity"
)

// Stored is the persisted report document. Appending a run concatenates its
// monthly entries onto the stored sequence (no dedupe, a month seen in two
// runs yields two entries); the LTV block is replaced wholesale by the
// latest run.
type Stored struct {
	UpdatedAt        time.Time              `json:"updated_at"`
	MonthlyBreakdown []entity.MonthlyCohort `json:"monthly_breakdown"`
	LTV              entity.LTVMetrics      `json:"ltv"`
}

// Log is the append-only report log on disk. File access is guarded with a
// sidecar flock so the server and the CLI can share one history file.
type Log struct {
	path   string
	lock   *flock.Flock
	logger *slog.Logger
}

// NewLog creates a report log at path.
func NewLog(path string, logger *slog.Logger) *Log {
	if logger == nil {
		logger = slog.Default()
	}
	return &Log{
		path:   path,
		lock:   flock.New(path + ".lock"),
		logger: logger,
	}
}

const lockRetryDelay = 50 * time.Millisecond

// Load returns the stored document, or (nil, nil) when no history file
// exists yet. The document is schema-validated before being trusted.
func (l *Log) Load(ctx context.Context) (*Stored, error) {
	locked, err := l.lock.TryRLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, common.WrapError(err, "lock history")
	}
	if !locked {
		return nil, common.NewAppError("HISTORY_LOCKED", "could not acquire history lock", common.ErrInternal)
	}
	defer func() {
		_ = l.lock.Unlock()
	}()

	return l.read()
}

// Append merges a run into the stored document and persists it atomically.
func (l *Log) Append(ctx context.Context, report entity.Report) (Stored, error) {
	locked, err := l.lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return Stored{}, common.WrapError(err, "lock history")
	}
	if !locked {
		return Stored{}, common.NewAppError("HISTORY_LOCKED", "could not acquire history lock", common.ErrInternal)
	}
	defer func() {
		_ = l.lock.Unlock()
	}()

	cur, err := l.read()
	if err != nil {
		return Stored{}, err
	}

	next := Stored{UpdatedAt: time.Now().UTC()}
	if cur != nil {
		next.MonthlyBreakdown = cur.MonthlyBreakdown
	}
	next.MonthlyBreakdown = append(next.MonthlyBreakdown, report.MonthlyBreakdown...)
	next.LTV = report.LTVMetrics

	if err := l.write(next); err != nil {
		return Stored{}, err
	}
	l.logger.Info("history appended",
		"path", l.path,
		"months_added", len(report.MonthlyBreakdown),
		"months_total", len(next.MonthlyBreakdown))
	return next, nil
}

func (l *Log) read() (*Stored, error) {
	b, err := os.ReadFile(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, common.WrapError(err, "read history")
	}

	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, common.NewAppError("HISTORY_CORRUPT", "history file is not valid JSON", err)
	}
	if err := storedSchema.Validate(doc); err != nil {
		return nil, common.NewAppError("HISTORY_CORRUPT", "history file failed schema validation", err)
	}

	var s Stored
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, common.WrapError(err, "decode history")
	}
	return &s, nil
}

// write persists the document with the tmp-then-rename dance so readers
// never observe a half-written file.
func (l *Log) write(s Stored) error {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return common.WrapError(err, "encode history")
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return common.WrapError(err, "create history dir")
	}
	tmp := l.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return common.WrapError(err, "write history")
	}
	return os.Rename(tmp, l.path)
}
