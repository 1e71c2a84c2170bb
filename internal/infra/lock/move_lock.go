package lock

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrAlreadyLocked = errors.New("lead já tem um movimento em voo")

// MoveLock implementa a trava consultiva por lead com SET NX + TTL.
// O TTL é rede de segurança: se o processo morrer no meio do commit,
// a trava expira sozinha.
type MoveLock struct {
	client *redis.Client
	ttl    time.Duration
}

func NewMoveLock(client *redis.Client) *MoveLock {
	return &MoveLock{
		client: client,
		ttl:    30 * time.Second,
	}
}

func (l *MoveLock) Acquire(ctx context.Context, leadID string) (func(), error) {
	key := "pipeline:move:" + leadID

	ok, err := l.client.SetNX(ctx, key, "1", l.ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrAlreadyLocked
	}

	release := func() {
		// Liberar fora do contexto do request: o commit pode ter
		// terminado depois do cancelamento do ctx original.
		l.client.Del(context.Background(), key)
	}
	return release, nil
}
