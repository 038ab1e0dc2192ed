package tracker

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// Writer persists run artifacts into a report directory.
type Writer struct {
	Dir          string
	ReportPath   string
	RunStatePath string
	HistoryPath  string
	LockPath     string
}

// NewWriter creates a writer rooted at dir.
func NewWriter(dir string) *Writer {
	return &Writer{
		Dir:          dir,
		ReportPath:   filepath.Join(dir, "report.json"),
		RunStatePath: filepath.Join(dir, "run_state.json"),
		HistoryPath:  filepath.Join(dir, "history.json"),
		LockPath:     filepath.Join(dir, ".rerun_lock"),
	}
}

// EnsureDir creates the report directory.
func (w *Writer) EnsureDir() error {
	if err := os.MkdirAll(w.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	return nil
}

// WriteReport replaces report.json with r.
func (w *Writer) WriteReport(r *Report) error {
	return writeJSONAtomic(w.ReportPath, r)
}

// LoadReport reads report.json. It returns nil, nil when there is none.
func (w *Writer) LoadReport() (*Report, error) {
	var r Report
	ok, err := readJSON(w.ReportPath, &r)
	if !ok {
		return nil, err
	}
	return &r, nil
}

// WriteRunState replaces run_state.json with s.
func (w *Writer) WriteRunState(s RunState) error {
	return writeJSONAtomic(w.RunStatePath, s)
}

// LoadRunState reads run_state.json. A missing or corrupt file reads as
// no state.
func (w *Writer) LoadRunState() (*RunState, error) {
	var rs RunState
	ok, err := readJSON(w.RunStatePath, &rs)
	if !ok {
		if isCorrupt(err) {
			return nil, nil
		}
		return nil, err
	}
	return &rs, nil
}

var errCorrupt = errors.New("corrupt json")

func isCorrupt(err error) bool { return errors.Is(err, errCorrupt) }

// readJSON decodes path into v. ok is false when the file is missing (err
// nil), unreadable, or not valid JSON (err wraps errCorrupt).
func readJSON(path string, v any) (ok bool, err error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(b, v); err != nil {
		return false, fmt.Errorf("%s: %w: %v", filepath.Base(path), errCorrupt, err)
	}
	return true, nil
}

func writeJSONAtomic(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return err
	}

	tmp := fmt.Sprintf("%s.tmp.%d", path, time.Now().UnixNano())
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
