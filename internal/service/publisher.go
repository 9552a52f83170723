package service

import (
	"context"
	"sync"

	"github.com/goccy/go-json"
	"github.com/nats-io/nats.go"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"exusiai.dev/shiftboard/internal/app/appconfig"
	"exusiai.dev/shiftboard/internal/model"
)

// Publisher announces snapshots whose content changed since the last one of
// the same mode. Without JetStream it only tracks fingerprints.
type Publisher struct {
	js      nats.JetStreamContext
	subject string

	mu   sync.Mutex
	last map[string]string
}

func NewPublisher(conf *appconfig.Config, js nats.JetStreamContext) *Publisher {
	return &Publisher{
		js:      js,
		subject: conf.NatsSubject,
		last:    make(map[string]string),
	}
}

func (p *Publisher) Subject(mode string) string {
	return p.subject + "." + mode
}

// Publish reports whether snap differs from the previous snapshot of its
// mode. Changed snapshots are published when JetStream is available.
func (p *Publisher) Publish(ctx context.Context, snap *model.Snapshot) (bool, error) {
	p.mu.Lock()
	changed := p.last[snap.Mode] != snap.Fingerprint
	p.last[snap.Mode] = snap.Fingerprint
	p.mu.Unlock()

	if !changed || p.js == nil {
		return changed, nil
	}

	b, err := json.Marshal(snap)
	if err != nil {
		return changed, errors.Wrap(err, "failed to encode snapshot")
	}

	subject := p.Subject(snap.Mode)
	_, err = p.js.Publish(subject, b, nats.Context(ctx), nats.MsgId(snap.Mode+":"+snap.Fingerprint))
	if err != nil {
		// forget the fingerprint so the next cycle retries
		p.mu.Lock()
		delete(p.last, snap.Mode)
		p.mu.Unlock()
		return changed, errors.Wrap(err, "failed to publish snapshot")
	}

	log.Debug().
		Str("evt.name", "snapshot.published").
		Str("subject", subject).
		Str("fingerprint", snap.Fingerprint).
		Msg("published changed snapshot")
	return changed, nil
}
