package seoassessor

import (
	"fmt"
	"time"
)

// Config holds configuration for the seo-assessor component.
type Config struct {
	// StreamName is the JetStream stream requests are consumed from.
	StreamName string `json:"stream_name"`

	// ConsumerName is the durable consumer name.
	ConsumerName string `json:"consumer_name"`

	// RequestSubject receives AuditRequest messages.
	RequestSubject string `json:"request_subject"`

	// ResultSubject is where AuditResult messages are published.
	ResultSubject string `json:"result_subject"`

	// AckWait is the per-message processing deadline (duration string).
	AckWait string `json:"ack_wait"`

	// MaxDeliver caps redelivery attempts for a failing message.
	MaxDeliver int `json:"max_deliver"`
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		StreamName:     "SEO_AUDITS",
		ConsumerName:   "seo-assessor",
		RequestSubject: "seo.audit.request",
		ResultSubject:  "seo.audit.result",
		AckWait:        "30s",
		MaxDeliver:     3,
	}
}

// GetAckWait parses the ack wait duration, falling back to 30 seconds.
func (c *Config) GetAckWait() time.Duration {
	if c.AckWait == "" {
		return 30 * time.Second
	}
	d, err := time.ParseDuration(c.AckWait)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.StreamName == "" {
		return fmt.Errorf("stream_name is required")
	}
	if c.ConsumerName == "" {
		return fmt.Errorf("consumer_name is required")
	}
	if c.RequestSubject == "" {
		return fmt.Errorf("request_subject is required")
	}
	if c.ResultSubject == "" {
		return fmt.Errorf("result_subject is required")
	}
	if c.MaxDeliver < 1 {
		return fmt.Errorf("max_deliver must be at least 1")
	}
	return nil
}
