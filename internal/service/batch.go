package service

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/avkram/accountd/internal/model"
)

// Registrar is the single-item registration path the batch fans out over.
type Registrar interface {
	RegisterActive(ctx context.Context, email, secret string) (*model.User, error)
}

// BatchItem is one registration attempt in a bulk request.
type BatchItem struct {
	Email  string
	Secret string
}

// BatchOutcome pairs one input item with either its created user or a failure
// reason. Exactly one of the fields is set.
type BatchOutcome struct {
	User *model.User
	Err  string
}

// BatchRegistrar runs many registration attempts with a cap on how many are in
// flight at once. Items fail independently; the batch as a whole never fails.
type BatchRegistrar struct {
	registrar Registrar
	limit     int64
	log       *zap.Logger
}

// NewBatchRegistrar constructs a registrar admitting at most limit concurrent
// registrations.
func NewBatchRegistrar(registrar Registrar, limit int, log *zap.Logger) *BatchRegistrar {
	if limit < 1 {
		limit = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &BatchRegistrar{registrar: registrar, limit: int64(limit), log: log}
}

// RegisterMany registers items with at most limit in flight. Outcomes are
// position-aligned with items regardless of completion order. Once the caller
// cancels, no new item starts; items already running finish on their own.
func (b *BatchRegistrar) RegisterMany(ctx context.Context, items []BatchItem) []BatchOutcome {
	outcomes := make([]BatchOutcome, len(items))
	gate := semaphore.NewWeighted(b.limit)
	var wg sync.WaitGroup
	for i, item := range items {
		if err := gate.Acquire(ctx, 1); err != nil {
			outcomes[i] = BatchOutcome{Err: err.Error()}
			continue
		}
		wg.Add(1)
		go func(i int, item BatchItem) {
			defer wg.Done()
			defer gate.Release(1)
			u, err := b.registrar.RegisterActive(ctx, item.Email, item.Secret)
			if err != nil {
				outcomes[i] = BatchOutcome{Err: err.Error()}
				return
			}
			outcomes[i] = BatchOutcome{User: u}
		}(i, item)
	}
	wg.Wait()

	failed := 0
	for _, o := range outcomes {
		if o.Err != "" {
			failed++
		}
	}
	b.log.Info("batch register",
		zap.Int("items", len(items)),
		zap.Int("failed", failed),
	)
	return outcomes
}
