package metrics

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	coremetrics "github.com/kilianp07/linebalance/core/metrics"
)

// CalculationRecord is one line of the calculation history file.
type CalculationRecord struct {
	Time          time.Time `json:"time"`
	CalculationID string    `json:"calculation_id"`
	Status        string    `json:"status"`
	Houses        int       `json:"houses"`
	Packages      int       `json:"packages"`
	TotalWeeks    int       `json:"total_weeks"`
	TotalCost     float64   `json:"total_cost"`
	ElapsedMS     float64   `json:"elapsed_ms"`
	Error         string    `json:"error,omitempty"`
}

// HistoryQuery filters history records. Zero fields match everything.
type HistoryQuery struct {
	Start  time.Time
	End    time.Time
	Status string
}

// JSONLSink appends one JSON line per calculation to a file rotated by size
// and age.
type JSONLSink struct {
	mu     sync.Mutex
	logger *lumberjack.Logger
	path   string
}

// NewJSONLSink creates a sink with rotation options in megabytes and days.
func NewJSONLSink(path string, maxSizeMB, maxBackups, maxAgeDays int) (*JSONLSink, error) {
	lj := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
	}
	// ensure directory exists
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return &JSONLSink{logger: lj, path: path}, nil
}

// RecordCalculation appends ev to the history file.
func (s *JSONLSink) RecordCalculation(ev coremetrics.CalculationEvent) error {
	rec := CalculationRecord{
		Time:          ev.Time.UTC(),
		CalculationID: ev.CalculationID,
		Status:        ev.Status(),
		Houses:        ev.Houses,
		Packages:      ev.Packages,
		TotalWeeks:    ev.TotalWeeks,
		TotalCost:     ev.TotalCost,
		ElapsedMS:     elapsedMillis(ev.Elapsed),
		Error:         ev.Err,
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return json.NewEncoder(s.logger).Encode(rec)
}

// Query reads the current and rotated history files, oldest first.
func (s *JSONLSink) Query(q HistoryQuery) ([]CalculationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ReadHistory(s.path, q)
}

// Close closes the underlying writer.
func (s *JSONLSink) Close() error {
	return s.logger.Close()
}

// ReadHistory reads history records written at path, including rotated
// backups, ordered by time.
func ReadHistory(path string, q HistoryQuery) ([]CalculationRecord, error) {
	ext := filepath.Ext(path)
	base := path[:len(path)-len(ext)]
	// Rotated backups are named <base>-<timestamp><ext>.
	backups, err := filepath.Glob(base + "-*" + ext)
	if err != nil {
		return nil, err
	}
	files := append(backups, path)
	var res []CalculationRecord
	for _, f := range files {
		file, err := os.Open(f)
		if err != nil {
			continue
		}
		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			var r CalculationRecord
			if err := json.Unmarshal(scanner.Bytes(), &r); err != nil {
				continue
			}
			if !q.Start.IsZero() && r.Time.Before(q.Start) {
				continue
			}
			if !q.End.IsZero() && r.Time.After(q.End) {
				continue
			}
			if q.Status != "" && r.Status != q.Status {
				continue
			}
			res = append(res, r)
		}
		_ = file.Close()
	}
	sort.SliceStable(res, func(i, j int) bool { return res[i].Time.Before(res[j].Time) })
	return res, nil
}
