package recorder

// NoopRecorder discards everything. Used when no database is configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordListing(l *Listing) error { return nil }

func (n *NoopRecorder) Close() error { return nil }
