package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/require"

	"github.com/avkram/accountd/internal/errs"
	"github.com/avkram/accountd/internal/model"
)

// countingRegistrar records the peak number of concurrent registrations.
type countingRegistrar struct {
	inFlight atomic.Int64
	peak     atomic.Int64
	delay    time.Duration
}

var _ Registrar = (*countingRegistrar)(nil)

func (r *countingRegistrar) RegisterActive(_ context.Context, email, secret string) (*model.User, error) {
	cur := r.inFlight.Add(1)
	defer r.inFlight.Add(-1)
	for {
		p := r.peak.Load()
		if cur <= p || r.peak.CompareAndSwap(p, cur) {
			break
		}
	}
	time.Sleep(r.delay)
	if err := model.ValidatePassword(secret); err != nil {
		return nil, err
	}
	return &model.User{ID: uuid.Must(uuid.NewV4()), Email: email, Status: model.Active{}}, nil
}

func TestBatchRegistrar_ConcurrencyCap(t *testing.T) {
	t.Parallel()
	reg := &countingRegistrar{delay: 5 * time.Millisecond}
	b := NewBatchRegistrar(reg, 3, nil)

	items := make([]BatchItem, 20)
	for i := range items {
		items[i] = BatchItem{Email: fmt.Sprintf("u%d@e.com", i), Secret: "Password1"}
	}
	outcomes := b.RegisterMany(context.Background(), items)

	require.Len(t, outcomes, 20)
	require.LessOrEqual(t, reg.peak.Load(), int64(3))
	for _, o := range outcomes {
		require.NotNil(t, o.User)
		require.Empty(t, o.Err)
	}
}

func TestBatchRegistrar_PositionAlignedOutcomes(t *testing.T) {
	t.Parallel()
	reg := &countingRegistrar{}
	b := NewBatchRegistrar(reg, 4, nil)

	items := []BatchItem{
		{Email: "ok0@e.com", Secret: "Password1"},
		{Email: "bad1@e.com", Secret: "short"},
		{Email: "ok2@e.com", Secret: "Password1"},
		{Email: "bad3@e.com", Secret: "nodigits"},
		{Email: "ok4@e.com", Secret: "Password1"},
	}
	outcomes := b.RegisterMany(context.Background(), items)

	require.Len(t, outcomes, 5)
	for _, i := range []int{0, 2, 4} {
		require.NotNil(t, outcomes[i].User, "item %d", i)
		require.Equal(t, items[i].Email, outcomes[i].User.Email)
	}
	for _, i := range []int{1, 3} {
		require.Nil(t, outcomes[i].User, "item %d", i)
		require.Contains(t, outcomes[i].Err, errs.ErrValidation.Error())
	}
}

func TestBatchRegistrar_FailuresAreIndependent(t *testing.T) {
	t.Parallel()
	s, _, _, _ := newAccountService()
	b := NewBatchRegistrar(s, 2, nil)

	// Second item collides with the first; the rest proceed.
	items := []BatchItem{
		{Email: "dup@e.com", Secret: "Password1"},
		{Email: "DUP@e.com", Secret: "Password1"},
		{Email: "other@e.com", Secret: "Password1"},
	}
	outcomes := b.RegisterMany(context.Background(), items)

	require.Len(t, outcomes, 3)
	failures := 0
	for _, o := range outcomes {
		if o.Err != "" {
			failures++
		}
	}
	// Exactly one of the duplicate pair loses; the third item always succeeds.
	require.Equal(t, 1, failures)
	require.NotNil(t, outcomes[2].User)
}

func TestBatchRegistrar_Cancellation(t *testing.T) {
	t.Parallel()
	reg := &countingRegistrar{delay: 20 * time.Millisecond}
	b := NewBatchRegistrar(reg, 1, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	items := make([]BatchItem, 5)
	for i := range items {
		items[i] = BatchItem{Email: fmt.Sprintf("u%d@e.com", i), Secret: "Password1"}
	}
	outcomes := b.RegisterMany(ctx, items)

	// No item starts after cancellation; every slot reports the cause.
	require.Len(t, outcomes, 5)
	for _, o := range outcomes {
		require.Nil(t, o.User)
		require.Contains(t, o.Err, context.Canceled.Error())
	}
	require.Zero(t, reg.peak.Load())
}
