package pipeline

// Message is one opaque notification blob from the message source. The
// pipeline does not care how messages were fetched or filtered; it only needs
// the text, a timestamp, and a stable id to fall back on.
type Message struct {
	ID              string // source message id, used as the fallback reference id
	Snippet         string // raw notification text
	TimestampMillis int64  // milliseconds since epoch; zero when the source had none
}

// RunResult reports the outcome of one pipeline run per item, not just per
// batch, so callers can audit exactly which transaction ids were persisted
// versus skipped.
type RunResult struct {
	Fetched           int      // messages received from the source
	Appended          []string // dedup keys of persisted records, in append order
	Skipped           []string // dedup keys suppressed as duplicates
	HeaderInitialized bool     // true if this run inserted the header row
}
