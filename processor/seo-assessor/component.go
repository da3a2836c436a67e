package seoassessor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	siteconfig "github.com/sybrew/the-seo-framework/config"
)

var (
	auditsProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tsf_audits_processed_total",
		Help: "Number of audit requests processed.",
	})
	auditErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tsf_audit_errors_total",
		Help: "Number of audit requests that failed.",
	})
	verdictsByStatus = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tsf_verdicts_total",
		Help: "Number of verdicts produced, by status.",
	}, []string{"status"})
)

// ResultSink receives completed audit results for persistence.
// *storage.Store satisfies it.
type ResultSink interface {
	SaveResult(ctx context.Context, res *AuditResult) error
}

// Component is the seo-assessor JetStream processor: it consumes
// AuditRequest messages and publishes AuditResult messages.
type Component struct {
	name     string
	config   Config
	js       jetstream.JetStream
	logger   *slog.Logger
	executor *Executor
	sink     ResultSink

	consumer jetstream.Consumer

	// Lifecycle.
	running   bool
	startTime time.Time
	mu        sync.RWMutex
	cancel    context.CancelFunc

	// Counters mirrored into Prometheus; kept locally for Status.
	requestsProcessed atomic.Int64
	errorsCount       atomic.Int64
}

// NewComponent constructs a seo-assessor Component. Unset config
// fields fall back to defaults.
func NewComponent(cfg Config, siteCfg *siteconfig.Config, js jetstream.JetStream, logger *slog.Logger) (*Component, error) {
	defaults := DefaultConfig()
	if cfg.StreamName == "" {
		cfg.StreamName = defaults.StreamName
	}
	if cfg.ConsumerName == "" {
		cfg.ConsumerName = defaults.ConsumerName
	}
	if cfg.RequestSubject == "" {
		cfg.RequestSubject = defaults.RequestSubject
	}
	if cfg.ResultSubject == "" {
		cfg.ResultSubject = defaults.ResultSubject
	}
	if cfg.AckWait == "" {
		cfg.AckWait = defaults.AckWait
	}
	if cfg.MaxDeliver == 0 {
		cfg.MaxDeliver = defaults.MaxDeliver
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if js == nil {
		return nil, fmt.Errorf("JetStream context required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Component{
		name:     "seo-assessor",
		config:   cfg,
		js:       js,
		logger:   logger,
		executor: NewExecutor(siteCfg, logger),
	}, nil
}

// SetResultSink makes the component persist each result after
// publishing it. Call before Start.
func (c *Component) SetResultSink(sink ResultSink) {
	c.sink = sink
}

// Initialize ensures the audit stream exists.
func (c *Component) Initialize(ctx context.Context) error {
	_, err := c.js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     c.config.StreamName,
		Subjects: []string{c.config.RequestSubject, c.config.ResultSubject},
	})
	if err != nil {
		return fmt.Errorf("ensure stream %s: %w", c.config.StreamName, err)
	}

	c.logger.Debug("initialized seo-assessor",
		slog.String("stream", c.config.StreamName),
		slog.String("consumer", c.config.ConsumerName))
	return nil
}

// Start begins consuming AuditRequest messages.
func (c *Component) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return fmt.Errorf("component already running")
	}
	c.running = true
	c.startTime = time.Now()

	subCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.mu.Unlock()

	stream, err := c.js.Stream(subCtx, c.config.StreamName)
	if err != nil {
		c.rollbackStart(cancel)
		return fmt.Errorf("get stream %s: %w", c.config.StreamName, err)
	}

	consumer, err := stream.CreateOrUpdateConsumer(subCtx, jetstream.ConsumerConfig{
		Durable:       c.config.ConsumerName,
		FilterSubject: c.config.RequestSubject,
		AckPolicy:     jetstream.AckExplicitPolicy,
		AckWait:       c.config.GetAckWait(),
		MaxDeliver:    c.config.MaxDeliver,
	})
	if err != nil {
		c.rollbackStart(cancel)
		return fmt.Errorf("create consumer: %w", err)
	}
	c.consumer = consumer

	go c.consumeLoop(subCtx)

	c.logger.Info("seo-assessor started",
		slog.String("stream", c.config.StreamName),
		slog.String("consumer", c.config.ConsumerName),
		slog.String("subject", c.config.RequestSubject))
	return nil
}

func (c *Component) rollbackStart(cancel context.CancelFunc) {
	c.mu.Lock()
	c.running = false
	c.cancel = nil
	c.mu.Unlock()
	cancel()
}

// Stop halts consumption.
func (c *Component) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return nil
	}
	c.running = false
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.logger.Info("seo-assessor stopped",
		slog.Int64("requests_processed", c.requestsProcessed.Load()),
		slog.Int64("errors", c.errorsCount.Load()))
	return nil
}

// consumeLoop fetches messages until the context is canceled.
func (c *Component) consumeLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		msgs, err := c.consumer.Fetch(1, jetstream.FetchMaxWait(5*time.Second))
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.logger.Debug("fetch timeout or error", slog.Any("error", err))
			continue
		}

		for msg := range msgs.Messages() {
			c.handleMessage(ctx, msg)
		}

		if msgs.Error() != nil && msgs.Error() != context.DeadlineExceeded {
			c.logger.Warn("message fetch error", slog.Any("error", msgs.Error()))
		}
	}
}

// handleMessage processes one AuditRequest.
func (c *Component) handleMessage(ctx context.Context, msg jetstream.Msg) {
	c.requestsProcessed.Add(1)
	auditsProcessed.Inc()

	var req AuditRequest
	if err := json.Unmarshal(msg.Data(), &req); err != nil {
		c.errorsCount.Add(1)
		auditErrors.Inc()
		c.logger.Error("failed to parse audit request", slog.Any("error", err))
		// Malformed payloads never succeed on retry.
		if ackErr := msg.Ack(); ackErr != nil {
			c.logger.Warn("failed to ACK message", slog.Any("error", ackErr))
		}
		return
	}

	if err := req.Validate(); err != nil {
		c.errorsCount.Add(1)
		auditErrors.Inc()
		c.logger.Error("invalid audit request", slog.Any("error", err))
		if ackErr := msg.Ack(); ackErr != nil {
			c.logger.Warn("failed to ACK invalid message", slog.Any("error", ackErr))
		}
		return
	}

	result, err := c.executor.Execute(&req)
	if err != nil {
		c.errorsCount.Add(1)
		auditErrors.Inc()
		c.logger.Error("audit failed",
			slog.String("request_id", req.RequestID),
			slog.Any("error", err))
		// Transient by assumption; NAK for redelivery.
		if nakErr := msg.Nak(); nakErr != nil {
			c.logger.Warn("failed to NAK message", slog.Any("error", nakErr))
		}
		return
	}

	for _, tv := range result.Verdicts {
		verdictsByStatus.WithLabelValues(tv.Verdict.Status.String()).Inc()
	}

	if err := c.publishResult(ctx, result); err != nil {
		c.errorsCount.Add(1)
		auditErrors.Inc()
		c.logger.Error("failed to publish audit result",
			slog.String("request_id", result.RequestID),
			slog.Any("error", err))
		if nakErr := msg.Nak(); nakErr != nil {
			c.logger.Warn("failed to NAK message", slog.Any("error", nakErr))
		}
		return
	}

	// The result is already published; a persistence failure must not
	// trigger a redelivery and a duplicate publish.
	if c.sink != nil {
		if err := c.sink.SaveResult(ctx, result); err != nil {
			c.logger.Warn("failed to persist audit result",
				slog.String("request_id", result.RequestID),
				slog.Any("error", err))
		}
	}

	if ackErr := msg.Ack(); ackErr != nil {
		c.logger.Warn("failed to ACK message", slog.Any("error", ackErr))
	}

	c.logger.Info("audit completed",
		slog.String("request_id", result.RequestID),
		slog.Int64("item_id", result.Query.ID),
		slog.String("taxonomy", result.Query.Taxonomy),
		slog.Int("verdicts", len(result.Verdicts)),
		slog.String("worst", result.WorstStatus().String()))
}

func (c *Component) publishResult(ctx context.Context, result *AuditResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if _, err := c.js.Publish(ctx, c.config.ResultSubject, data); err != nil {
		return fmt.Errorf("publish to %s: %w", c.config.ResultSubject, err)
	}
	return nil
}
