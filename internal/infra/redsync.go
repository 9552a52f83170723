package infra

import (
	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	goredislib "github.com/redis/go-redis/v9"
)

// RedSync is nil without redis; archiving then runs unlocked, which is only
// safe with a single instance.
func RedSync(client *goredislib.Client) *redsync.Redsync {
	if client == nil {
		return nil
	}
	pool := goredis.NewPool(client)
	return redsync.New(pool)
}
