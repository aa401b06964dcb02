package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	bufferSize   = 1_000
	sendTimeout  = 5 * time.Second
	drainTimeout = 2 * time.Second
)

// DatadogConfig configures the Datadog emitter.
type DatadogConfig struct {
	APIKey string
	Site   string // e.g. "datadoghq.com", "us5.datadoghq.com"
	App    string // first fixed metric tag: app:<App>
	Env    string // second fixed metric tag: env:<Env>
}

// DatadogEmitter ships log documents and metric series to the Datadog
// HTTP intake. Emission is detached from the caller: events go through a
// buffered channel serviced by a single background goroutine, and are
// dropped (with a local warning) when the buffer is full.
type DatadogEmitter struct {
	logURL    string
	metricURL string
	apiKey    string
	fixedTags []string

	httpClient *http.Client
	buffer     chan payload
	done       chan struct{}
	drained    chan struct{} // closed by sendLoop when it returns
	logger     *zap.Logger
}

// payload is one queued intake document: a log document or a metric series.
type payload struct {
	url  string
	body any
}

// NewDatadogEmitter creates the emitter and starts its send loop.
func NewDatadogEmitter(cfg DatadogConfig, logger *zap.Logger) *DatadogEmitter {
	site := cfg.Site
	if site == "" {
		site = "datadoghq.com"
	}

	e := &DatadogEmitter{
		// The metrics API host differs from the logs intake host.
		logURL:     fmt.Sprintf("https://http-intake.logs.%s/api/v2/logs", site),
		metricURL:  fmt.Sprintf("https://api.%s/api/v1/series", site),
		apiKey:     cfg.APIKey,
		fixedTags:  []string{"app:" + cfg.App, "env:" + cfg.Env},
		httpClient: &http.Client{Timeout: sendTimeout},
		buffer:     make(chan payload, bufferSize),
		done:       make(chan struct{}),
		drained:    make(chan struct{}),
		logger:     logger,
	}

	go e.sendLoop()
	return e
}

// EmitLog queues a structured log document. Never blocks.
func (e *DatadogEmitter) EmitLog(event LogEvent) {
	doc := map[string]any{
		"ddsource":   event.Source,
		"service":    event.Service,
		"message":    event.Message,
		"status":     event.Status,
		"timestamp":  event.Timestamp.UnixMilli(),
		"attributes": event.Attributes,
	}
	e.enqueue(payload{url: e.logURL, body: doc})
}

// EmitMetric queues a count metric point. The two fixed app/env tags are
// always prepended to the caller's tags. Never blocks.
func (e *DatadogEmitter) EmitMetric(name string, value float64, tags []string) {
	allTags := make([]string, 0, len(e.fixedTags)+len(tags))
	allTags = append(allTags, e.fixedTags...)
	allTags = append(allTags, tags...)

	series := map[string]any{
		"series": []map[string]any{
			{
				"metric": name,
				"points": [][]float64{{float64(time.Now().Unix()), value}},
				"type":   "count",
				"tags":   allTags,
			},
		},
	}
	e.enqueue(payload{url: e.metricURL, body: series})
}

// Close signals the send loop to drain queued payloads (up to
// drainTimeout) and waits for it to finish. Safe to call once.
func (e *DatadogEmitter) Close() {
	close(e.done)
	<-e.drained
}

func (e *DatadogEmitter) enqueue(p payload) {
	select {
	case e.buffer <- p:
	default:
		e.logger.Warn("telemetry buffer full, dropping event",
			zap.String("url", p.url),
		)
	}
}

func (e *DatadogEmitter) sendLoop() {
	defer close(e.drained)

	for {
		select {
		case p := <-e.buffer:
			e.send(p)
		case <-e.done:
			deadline := time.Now().Add(drainTimeout)
			for {
				select {
				case p := <-e.buffer:
					if time.Now().After(deadline) {
						return
					}
					e.send(p)
				default:
					return
				}
			}
		}
	}
}

// send posts one intake document. Failures are logged and discarded.
func (e *DatadogEmitter) send(p payload) {
	body, err := json.Marshal(p.body)
	if err != nil {
		e.logger.Warn("telemetry marshal failed", zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		e.logger.Warn("telemetry request build failed", zap.Error(err))
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("DD-API-KEY", e.apiKey)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		e.logger.Warn("telemetry send failed", zap.Error(err))
		return
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		e.logger.Warn("telemetry backend rejected payload",
			zap.Int("status", resp.StatusCode),
			zap.String("url", p.url),
		)
	}
}
