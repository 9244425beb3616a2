// Package notify announces completed builds on NATS so downstream
// consumers (docs preview servers, deploy hooks) can pick up the new bundle.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"git.home.luguber.info/inful/elmbuild/internal/config"
	"git.home.luguber.info/inful/elmbuild/internal/errors"
	"git.home.luguber.info/inful/elmbuild/internal/logfields"
	"git.home.luguber.info/inful/elmbuild/internal/pipeline"
)

// BuiltMessage is published after every successful build.
type BuiltMessage struct {
	BuildID   string    `json:"build_id"`
	Inputs    []string  `json:"inputs"`
	Output    string    `json:"output"`
	Bytes     int       `json:"bytes"`
	Checksum  string    `json:"sha256"`
	Timestamp time.Time `json:"timestamp"`
}

// conn is the subset of *nats.Conn the notifier uses.
type conn interface {
	Publish(subj string, data []byte) error
	FlushWithContext(ctx context.Context) error
	Close()
}

// NATSNotifier implements pipeline.Notifier over a core NATS connection.
type NATSNotifier struct {
	conn    conn
	subject string
	now     func() time.Time
}

// NewNATSNotifier connects to cfg.NATSURL.
func NewNATSNotifier(cfg config.NotifyConfig) (*NATSNotifier, error) {
	if cfg.NATSURL == "" {
		return nil, errors.ValidationFailed("notify.nats_url", "required to enable notifications")
	}
	nc, err := nats.Connect(cfg.NATSURL, nats.Name("elmbuild"), nats.Timeout(5*time.Second))
	if err != nil {
		return nil, errors.NotifyFailed(cfg.Subject, fmt.Errorf("connect: %w", err))
	}
	slog.Info("NATS notifier connected", slog.String("url", cfg.NATSURL), logfields.Subject(cfg.Subject))
	return newNATSNotifier(nc, cfg.Subject), nil
}

func newNATSNotifier(c conn, subject string) *NATSNotifier {
	return &NATSNotifier{conn: c, subject: subject, now: time.Now}
}

// NotifyBuilt publishes a BuiltMessage and waits for the server to accept it.
func (n *NATSNotifier) NotifyBuilt(ctx context.Context, report *pipeline.Report) error {
	msg := BuiltMessage{
		BuildID:   report.BuildID,
		Inputs:    report.InputPaths,
		Output:    report.OutputPath,
		Bytes:     report.Bytes,
		Checksum:  report.Checksum,
		Timestamp: n.now().UTC(),
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return errors.NotifyFailed(n.subject, fmt.Errorf("marshal: %w", err))
	}

	if err := n.conn.Publish(n.subject, data); err != nil {
		return errors.NotifyFailed(n.subject, err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := n.conn.FlushWithContext(ctx); err != nil {
		return errors.NotifyFailed(n.subject, fmt.Errorf("flush: %w", err))
	}

	slog.Debug("Published build notification", logfields.Subject(n.subject), logfields.BuildID(report.BuildID))
	return nil
}

// Close drains nothing and closes the connection.
func (n *NATSNotifier) Close() {
	if n.conn != nil {
		n.conn.Close()
	}
}

var _ pipeline.Notifier = (*NATSNotifier)(nil)
