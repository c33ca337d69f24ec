package queue

import (
	"encoding/json"
	"strings"
	"time"

	"hushcut/internal/media/probe"
)

// Status represents the lifecycle of a queue item.
type Status string

const (
	StatusPending       Status = "pending"
	StatusAnalyzing     Status = "analyzing"
	StatusPreprocessing Status = "preprocessing"
	StatusCutting       Status = "cutting"
	StatusCompleted     Status = "completed"
	StatusFailed        Status = "failed"
)

var allStatuses = []Status{
	StatusPending,
	StatusAnalyzing,
	StatusPreprocessing,
	StatusCutting,
	StatusCompleted,
	StatusFailed,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

var processingStatuses = map[Status]struct{}{
	StatusAnalyzing:     {},
	StatusPreprocessing: {},
	StatusCutting:       {},
}

// ParseStatus validates a user-supplied status string.
func ParseStatus(raw string) (Status, bool) {
	status := Status(strings.ToLower(strings.TrimSpace(raw)))
	_, ok := statusSet[status]
	return status, ok
}

// IsProcessing reports whether the status marks an item a worker is actively handling.
func (s Status) IsProcessing() bool {
	_, ok := processingStatuses[s]
	return ok
}

// IsTerminal reports whether the item has finished, successfully or not.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Item represents one queued video persisted in SQLite.
type Item struct {
	ID              int64
	RunID           string
	SourcePath      string
	OutputPath      string
	Status          Status
	ErrorMessage    string
	ProgressPercent float64
	ProgressMessage string
	VideoInfoJSON   string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// SetVideoInfo stores the probe result as JSON on the item.
func (i *Item) SetVideoInfo(info probe.VideoInfo) error {
	data, err := json.Marshal(info)
	if err != nil {
		return err
	}
	i.VideoInfoJSON = string(data)
	return nil
}

// VideoInfo decodes the stored probe result. The zero value is returned when
// no probe has run yet.
func (i *Item) VideoInfo() (probe.VideoInfo, error) {
	if strings.TrimSpace(i.VideoInfoJSON) == "" {
		return probe.VideoInfo{}, nil
	}
	var info probe.VideoInfo
	if err := json.Unmarshal([]byte(i.VideoInfoJSON), &info); err != nil {
		return probe.VideoInfo{}, err
	}
	return info, nil
}

// HealthSummary aggregates queue counts per key lifecycle states.
type HealthSummary struct {
	Total      int
	Pending    int
	Processing int
	Failed     int
	Completed  int
}
