package store

import (
	"context"
	"errors"
	"time"

	"github.com/grecsai/grecs/internal/history"
)

// ErrNotFound is returned by single-record lookups that match nothing.
var ErrNotFound = errors.New("not found")

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// LLMRequestEventData captures the data for a single generation request.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEventRecord is a stored generation request.
type LLMRequestEventRecord struct {
	ID        int64
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// UsageSummary aggregates request events by one key (purpose or model).
type UsageSummary struct {
	Key          string
	Calls        int
	Failures     int
	InputTokens  int64
	OutputTokens int64
	LatencyMs    int64
}

// LLMQuery narrows QueryLLMEvents.
type LLMQuery struct {
	QueryOpts
	Purpose string
}

// EventRepo provides append and query access to generation events.
type EventRepo interface {
	// AppendLLMRequest records a generation API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, q LLMQuery) ([]LLMRequestEventRecord, error)

	// GetLLMEvent returns one event by ID, or ErrNotFound.
	GetLLMEvent(ctx context.Context, id int64) (*LLMRequestEventRecord, error)

	LLMUsageByPurpose(ctx context.Context) ([]UsageSummary, error)
	LLMUsageByModel(ctx context.Context) ([]UsageSummary, error)
}

// ArchivedEntry is a persisted ledger entry with its owning session.
type ArchivedEntry struct {
	history.Entry
	SessionID string
	Sequence  int64
}

// HistoryQuery narrows QueryHistory.
type HistoryQuery struct {
	QueryOpts
	SessionID string
	Mode      string
}

// HistoryRepo persists History Ledger entries beyond a session's lifetime.
type HistoryRepo interface {
	// AppendHistory archives one ledger entry for sessionID.
	AppendHistory(ctx context.Context, sessionID string, entry history.Entry) error

	// QueryHistory returns archived entries newest first.
	QueryHistory(ctx context.Context, q HistoryQuery) ([]ArchivedEntry, error)

	// GetHistory returns one archived entry by its entry ID, or ErrNotFound.
	GetHistory(ctx context.Context, entryID string) (*ArchivedEntry, error)
}
