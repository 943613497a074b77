package model

// RecordSink consumes decoded records. Implementations must not block
// indefinitely: the collector calls Emit from the connection's read loop.
type RecordSink interface {
	Emit(record LogRecord)
}

// RecordSource produces the next record to ship. It returns false once the
// source is exhausted.
type RecordSource interface {
	Next() (LogRecord, bool)
}

// SinkFunc adapts a plain function to RecordSink.
type SinkFunc func(record LogRecord)

func (f SinkFunc) Emit(record LogRecord) { f(record) }

// SourceFunc adapts a plain function to RecordSource.
type SourceFunc func() (LogRecord, bool)

func (f SourceFunc) Next() (LogRecord, bool) { return f() }
