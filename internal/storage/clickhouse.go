package storage

import (
	"context"
	"crypto/tls"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"go.uber.org/zap"
)

const (
	bufferSize    = 10_000
	flushInterval = 100 * time.Millisecond
	flushBatch    = 1000
	drainTimeout  = 2 * time.Second
)

// ClickHouseWriter writes scan events to ClickHouse asynchronously.
// Write() is non-blocking — events are buffered and batch-inserted in a
// background goroutine.
type ClickHouseWriter struct {
	conn    driver.Conn
	buffer  chan *ScanEvent
	done    chan struct{}
	flushed chan struct{} // closed by flushLoop when it returns
	logger  *zap.Logger
}

// NewClickHouseWriter creates a ClickHouseWriter and starts the background flush loop.
func NewClickHouseWriter(dsn string, logger *zap.Logger) (*ClickHouseWriter, error) {
	opts, err := clickhouse.ParseDSN(dsn)
	if err != nil {
		return nil, err
	}

	// Ensure TLS is enabled for secure connections (e.g. ClickHouse Cloud
	// on port 9440). ParseDSN sets this when ?secure=true is in the DSN,
	// but we enforce it here as a safety net.
	if opts.TLS == nil {
		opts.TLS = &tls.Config{}
	}

	conn, err := clickhouse.Open(opts)
	if err != nil {
		return nil, err
	}

	if err := conn.Ping(context.Background()); err != nil {
		return nil, err
	}

	w := &ClickHouseWriter{
		conn:    conn,
		buffer:  make(chan *ScanEvent, bufferSize),
		done:    make(chan struct{}),
		flushed: make(chan struct{}),
		logger:  logger,
	}

	go w.flushLoop()
	return w, nil
}

// Write queues a scan event for async insertion.
// Non-blocking: drops the event if the buffer is full.
func (w *ClickHouseWriter) Write(event *ScanEvent) {
	select {
	case w.buffer <- event:
	default:
		w.logger.Warn("clickhouse buffer full, dropping event",
			zap.String("request_id", event.RequestID),
		)
	}
}

// Close signals the flush loop to drain remaining events, waits for it to
// finish (up to drainTimeout), and then returns. Safe to call once.
func (w *ClickHouseWriter) Close() {
	close(w.done)
	<-w.flushed
}

func (w *ClickHouseWriter) flushLoop() {
	defer close(w.flushed)

	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	batch := make([]*ScanEvent, 0, flushBatch)

	for {
		select {
		case event := <-w.buffer:
			batch = append(batch, event)
			if len(batch) >= flushBatch {
				w.flush(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				w.flush(batch)
				batch = batch[:0]
			}
		case <-w.done:
			// Drain remaining events from buffer
			drainCtx, cancel := context.WithTimeout(context.Background(), drainTimeout)
			defer cancel()
		drainLoop:
			for {
				select {
				case event := <-w.buffer:
					batch = append(batch, event)
				case <-drainCtx.Done():
					break drainLoop
				default:
					break drainLoop
				}
			}
			if len(batch) > 0 {
				w.flush(batch)
			}
			return
		}
	}
}

func (w *ClickHouseWriter) flush(events []*ScanEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	batch, err := w.conn.PrepareBatch(ctx, `
		INSERT INTO scan_events (
			request_id, timestamp, source,
			intent, action, risk_level, confidence, reasoning,
			snippet_preview, snippet_hash, snippet_size, sanitized,
			latency_ms, tokens_used, status, error_detail
		)
	`)
	if err != nil {
		w.logger.Error("clickhouse prepare batch failed", zap.Error(err))
		return
	}

	for _, e := range events {
		// Bools travel as UInt8 in ClickHouse
		var sanitizedUint8 uint8
		if e.Sanitized {
			sanitizedUint8 = 1
		}

		if err := batch.Append(
			e.RequestID,
			e.Timestamp,
			e.Source,
			e.Intent,
			e.Action,
			e.RiskLevel,
			e.Confidence,
			e.Reasoning,
			e.SnippetPreview,
			e.SnippetHash,
			e.SnippetSize,
			sanitizedUint8,
			e.LatencyMs,
			e.TokensUsed,
			e.Status,
			e.ErrorDetail,
		); err != nil {
			w.logger.Error("clickhouse append event failed",
				zap.String("request_id", e.RequestID),
				zap.Error(err),
			)
		}
	}

	if err := batch.Send(); err != nil {
		w.logger.Error("clickhouse batch send failed",
			zap.Int("batch_size", len(events)),
			zap.Error(err),
		)
	}
}

// LogWriter is a fallback EventWriter for local development.
// It logs events as structured JSON to stdout via zap.
type LogWriter struct {
	logger *zap.Logger
}

// NewLogWriter creates a LogWriter that outputs events to the given logger.
func NewLogWriter(logger *zap.Logger) *LogWriter {
	return &LogWriter{logger: logger}
}

func (w *LogWriter) Write(event *ScanEvent) {
	w.logger.Info("scan_event",
		zap.String("request_id", event.RequestID),
		zap.String("source", event.Source),
		zap.String("intent", event.Intent),
		zap.String("action", event.Action),
		zap.String("risk_level", event.RiskLevel),
		zap.Float64("confidence", event.Confidence),
		zap.Float64("latency_ms", event.LatencyMs),
		zap.String("status", event.Status),
		zap.String("snippet_preview", event.SnippetPreview),
	)
}

func (w *LogWriter) Close() {}
