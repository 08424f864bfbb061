package progress

import (
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/alexjago/nparty/pkg/log"
)

// CompletionEvent is published to a NATS subject once a scenario's scan
// finishes, for operators running nparty as one stage of a larger pipeline
// to trigger the next stage without polling the filesystem.
type CompletionEvent struct {
	RunID    string `json:"run_id"`
	Scenario string `json:"scenario"`
	RowsRead uint64 `json:"rows_read"`
	Seconds  float64 `json:"seconds"`
	OutPath  string `json:"out_path"`
}

// Publisher wraps a single NATS connection used to announce scenario
// completion. Address == "" makes every method a no-op, so callers never
// need to branch on whether NATS is configured.
type Publisher struct {
	conn    *nats.Conn
	subject string
}

// NewPublisher connects to address (a "nats://host:port" URL) and returns
// a Publisher that announces completions on subject. An empty address
// yields a disabled Publisher.
func NewPublisher(address, subject string) (*Publisher, error) {
	if address == "" {
		return &Publisher{}, nil
	}
	nc, err := nats.Connect(address,
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warnf("progress: nats disconnected: %v", err)
			}
		}),
		nats.ErrorHandler(func(_ *nats.Conn, _ *nats.Subscription, err error) {
			log.Errorf("progress: nats error: %v", err)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("progress: nats connect %s: %w", address, err)
	}
	log.Infof("progress: nats connected to %s", address)
	return &Publisher{conn: nc, subject: subject}, nil
}

// Publish announces ev. Errors are logged, not returned: a dropped
// completion event must never fail the scan that produced it.
func (p *Publisher) Publish(ev CompletionEvent) {
	if p.conn == nil {
		return
	}
	data, err := json.Marshal(ev)
	if err != nil {
		log.Errorf("progress: marshal completion event: %v", err)
		return
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		log.Warnf("progress: nats publish to %s: %v", p.subject, err)
	}
}

// Close flushes and releases the underlying connection, if any.
func (p *Publisher) Close() {
	if p.conn == nil {
		return
	}
	_ = p.conn.Flush()
	p.conn.Close()
}
