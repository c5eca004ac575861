// Package ingest converts roast references delivered over Kafka.
package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/crimson-sun/artisanize/internal/model"
)

const defaultPollTimeout = 5 * time.Second

// Config holds the consumer settings. Brokers, Topic and GroupID are required.
type Config struct {
	Brokers     []string
	Topic       string
	GroupID     string
	PollTimeout time.Duration
}

// Runner converts one roast reference. Implemented by *pipeline.Pipeline.
type Runner interface {
	Run(ctx context.Context, ref string) (model.Summary, error)
}

// messageReader is the subset of *kafka.Reader the consumer relies on.
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer reads roast references from a topic and runs each through a
// Runner. Every message is committed once handled, whether or not the
// conversion succeeded.
type Consumer struct {
	cfg    Config
	reader messageReader
	runner Runner
	log    *slog.Logger
	poll   time.Duration
}

// New validates cfg and builds a consumer backed by a kafka-go group reader.
func New(cfg Config, runner Runner, log *slog.Logger) (*Consumer, error) {
	if runner == nil {
		return nil, errors.New("ingest: runner must not be nil")
	}
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("ingest: at least one broker is required")
	}
	if strings.TrimSpace(cfg.Topic) == "" {
		return nil, errors.New("ingest: topic must not be empty")
	}
	if strings.TrimSpace(cfg.GroupID) == "" {
		return nil, errors.New("ingest: consumer group must not be empty")
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		GroupID:     cfg.GroupID,
		Topic:       cfg.Topic,
		StartOffset: kafka.FirstOffset,
		MinBytes:    1,
		MaxBytes:    10e6,
	})
	return newConsumer(cfg, reader, runner, log), nil
}

func newConsumer(cfg Config, reader messageReader, runner Runner, log *slog.Logger) *Consumer {
	if log == nil {
		log = slog.Default()
	}
	poll := cfg.PollTimeout
	if poll <= 0 {
		poll = defaultPollTimeout
	}
	return &Consumer{cfg: cfg, reader: reader, runner: runner, log: log, poll: poll}
}

// Close shuts down the underlying reader.
func (c *Consumer) Close() error {
	if c == nil || c.reader == nil {
		return nil
	}
	return c.reader.Close()
}

// Run consumes until ctx is cancelled or the reader is closed. It returns
// ctx.Err() on cancellation and nil when the reader was closed.
func (c *Consumer) Run(ctx context.Context) error {
	c.log.Info("consumer started",
		"topic", c.cfg.Topic,
		"group", c.cfg.GroupID,
		"brokers", strings.Join(c.cfg.Brokers, ","),
		"poll_timeout", c.poll,
	)
	defer c.log.Info("consumer stopped")

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		fetchCtx, cancel := context.WithTimeout(ctx, c.poll)
		msg, err := c.reader.FetchMessage(fetchCtx)
		cancel()
		if err != nil {
			switch {
			case errors.Is(err, context.DeadlineExceeded):
				continue
			case errors.Is(err, context.Canceled):
				if ctx.Err() != nil {
					return ctx.Err()
				}
				continue
			case errors.Is(err, io.ErrClosedPipe), errors.Is(err, kafka.ErrGroupClosed), errors.Is(err, io.EOF):
				return nil
			}
			c.log.Error("fetch failed", "err", err)
			continue
		}

		c.handle(ctx, msg)

		commitCtx, commitCancel := context.WithTimeout(ctx, c.poll)
		if err := c.reader.CommitMessages(commitCtx, msg); err != nil {
			if !(errors.Is(err, context.Canceled) && ctx.Err() != nil) {
				c.log.Error("commit failed", "offset", msg.Offset, "err", err)
			}
		}
		commitCancel()
	}
}

func (c *Consumer) handle(ctx context.Context, msg kafka.Message) {
	ref, err := decodeRef(msg.Value)
	if err != nil {
		c.log.Warn("skipping message", "partition", msg.Partition, "offset", msg.Offset, "err", err)
		return
	}

	start := time.Now()
	summary, err := c.runner.Run(ctx, ref)
	if err != nil {
		c.log.Error("conversion failed", "ref", ref, "offset", msg.Offset, "err", err)
		return
	}
	c.log.Info("conversion done",
		"ref", ref,
		"offset", msg.Offset,
		"roast", summary.RoastName,
		"points", summary.Points,
		"elapsed", time.Since(start),
	)
}

// refEnvelope is the JSON form of a message value.
type refEnvelope struct {
	Ref string `json:"ref"`
	ID  string `json:"id"`
	URL string `json:"url"`
}

// decodeRef accepts either a bare roast id or URL, or a JSON object carrying
// one of "ref", "id" or "url".
func decodeRef(value []byte) (string, error) {
	raw := bytes.TrimSpace(value)
	if len(raw) == 0 {
		return "", errors.New("empty message")
	}
	if raw[0] != '{' {
		return string(raw), nil
	}

	var env refEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return "", fmt.Errorf("decode roast reference: %w", err)
	}
	for _, s := range []string{env.Ref, env.ID, env.URL} {
		if s = strings.TrimSpace(s); s != "" {
			return s, nil
		}
	}
	return "", errors.New("roast reference missing: expected ref, id or url")
}
