package service

import (
	"context"

	"github.com/nats-io/nats.go"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

var (
	ErrDatabaseNotReachable = errors.New("database not reachable")
	ErrRedisNotReachable    = errors.New("redis not reachable")
	ErrNATSNotReachable     = errors.New("nats not reachable")
	ErrUpstreamNotReachable = errors.New("upstream not reachable")
)

const (
	StatusOK       = "ok"
	StatusDisabled = "disabled"
)

// UpstreamPinger checks that the lab API answers.
type UpstreamPinger interface {
	Ping(ctx context.Context) error
}

type Health struct {
	archive  ArchiveStore
	upstream UpstreamPinger
	redis    *redis.Client
	nats     *nats.Conn
}

func NewHealth(archive ArchiveStore, upstream UpstreamPinger, redis *redis.Client, nats *nats.Conn) *Health {
	return &Health{
		archive:  archive,
		upstream: upstream,
		redis:    redis,
		nats:     nats,
	}
}

// Check reports the state of each optional component: StatusOK, StatusDisabled
// or the failure. The returned error is the first failure, if any.
func (s *Health) Check(ctx context.Context) (map[string]string, error) {
	checks := []struct {
		name    string
		enabled bool
		ping    func(ctx context.Context) error
	}{
		{"upstream", s.upstream != nil, s.pingUpstream},
		{"postgres", s.archive.Enabled(), s.pingArchive},
		{"redis", s.redis != nil, s.pingRedis},
		{"nats", s.nats != nil, s.pingNATS},
	}

	results := make([]error, len(checks))
	eg, ectx := errgroup.WithContext(ctx)
	for i, c := range checks {
		i, c := i, c
		if !c.enabled {
			continue
		}
		eg.Go(func() error {
			results[i] = c.ping(ectx)
			return nil
		})
	}
	_ = eg.Wait()

	report := make(map[string]string, len(checks))
	var first error
	for i, c := range checks {
		switch {
		case !c.enabled:
			report[c.name] = StatusDisabled
		case results[i] != nil:
			report[c.name] = results[i].Error()
			if first == nil {
				first = results[i]
			}
		default:
			report[c.name] = StatusOK
		}
	}
	return report, first
}

func (s *Health) pingUpstream(ctx context.Context) error {
	if err := s.upstream.Ping(ctx); err != nil {
		return errors.Wrap(ErrUpstreamNotReachable, err.Error())
	}
	return nil
}

func (s *Health) pingArchive(ctx context.Context) error {
	if err := s.archive.Ping(ctx); err != nil {
		return errors.Wrap(ErrDatabaseNotReachable, err.Error())
	}
	return nil
}

func (s *Health) pingRedis(ctx context.Context) error {
	if err := s.redis.Ping(ctx).Err(); err != nil {
		return errors.Wrap(ErrRedisNotReachable, err.Error())
	}
	return nil
}

// nats keeps its own ping loop (see infra/nats.go); the connection status is
// enough here.
func (s *Health) pingNATS(context.Context) error {
	switch status := s.nats.Status(); status {
	case nats.CONNECTED, nats.DRAINING_PUBS, nats.DRAINING_SUBS:
		return nil
	default:
		return errors.Wrap(ErrNATSNotReachable, status.String())
	}
}
