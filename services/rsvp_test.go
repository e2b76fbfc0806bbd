package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/LovationAdmin/wedding-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyStore wraps a real store and fails SaveRSVP while failing is set.
type flakyStore struct {
	*WeddingStore
	failing  atomic.Bool
	inFlight sync.Map // invitation id -> *atomic.Int32
	overlap  atomic.Bool
	delay    time.Duration
}

func (f *flakyStore) SaveRSVP(ctx context.Context, id string, status models.RSVPStatus, plusOnes *int, message *string) (*models.EventInvitation, error) {
	counter, _ := f.inFlight.LoadOrStore(id, new(atomic.Int32))
	n := counter.(*atomic.Int32)
	if n.Add(1) > 1 {
		f.overlap.Store(true)
	}
	defer n.Add(-1)

	time.Sleep(f.delay)
	if f.failing.Load() {
		return nil, errors.New("connection reset by peer")
	}
	return f.WeddingStore.SaveRSVP(ctx, id, status, plusOnes, message)
}

func TestRSVPService_Submit(t *testing.T) {
	store := newTestStore(t)
	fx := seedWedding(t, store)
	svc := NewRSVPService(store)
	ctx := context.Background()
	id := fx.invites[0].ID

	t.Run("yes defaults to one guest", func(t *testing.T) {
		inv, err := svc.Submit(ctx, "g1", id, models.RSVPRequest{Status: "yes"})
		require.NoError(t, err)
		assert.Equal(t, 1, inv.PlusOnes)
	})

	t.Run("yes keeps stored count", func(t *testing.T) {
		_, err := svc.Submit(ctx, "g1", id, models.RSVPRequest{Status: "yes", PlusOnes: intPtr(4)})
		require.NoError(t, err)
		inv, err := svc.Submit(ctx, "g1", id, models.RSVPRequest{Status: "yes", Message: strPtr("see you")})
		require.NoError(t, err)
		assert.Equal(t, 4, inv.PlusOnes)
		assert.Equal(t, "see you", inv.Message)
	})

	t.Run("maybe zeroes count", func(t *testing.T) {
		inv, err := svc.Submit(ctx, "g1", id, models.RSVPRequest{Status: "maybe", PlusOnes: intPtr(3)})
		require.NoError(t, err)
		assert.Equal(t, 0, inv.PlusOnes)
		assert.Equal(t, models.RSVPMaybe, inv.RSVPStatus)
	})

	t.Run("validation", func(t *testing.T) {
		_, err := svc.Submit(ctx, "g1", id, models.RSVPRequest{Status: "YES"})
		assert.ErrorIs(t, err, ErrInvalidRSVPStatus)
		_, err = svc.Submit(ctx, "g1", id, models.RSVPRequest{Status: "yes", PlusOnes: intPtr(0)})
		assert.ErrorIs(t, err, ErrInvalidPlusOnes)
	})

	t.Run("other guest's invitation", func(t *testing.T) {
		_, err := svc.Submit(ctx, "intruder", id, models.RSVPRequest{Status: "no"})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestRSVPService_SerializesWritesPerInvitation(t *testing.T) {
	store := newTestStore(t)
	fx := seedWedding(t, store)
	flaky := &flakyStore{WeddingStore: store, delay: 5 * time.Millisecond}
	svc := NewRSVPService(flaky)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			status := "yes"
			if i%2 == 0 {
				status = "no"
			}
			_, err := svc.Submit(context.Background(), "g1", fx.invites[0].ID, models.RSVPRequest{Status: status})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.False(t, flaky.overlap.Load(), "writes for one invitation overlapped")
	assert.Equal(t, 0, svc.locks.size())

	inv, err := store.GetInvitation(context.Background(), fx.invites[0].ID)
	require.NoError(t, err)
	if inv.RSVPStatus == models.RSVPNo {
		assert.Equal(t, 0, inv.PlusOnes)
	} else {
		assert.Equal(t, models.RSVPYes, inv.RSVPStatus)
		assert.GreaterOrEqual(t, inv.PlusOnes, 1)
	}
}

func TestRSVPController_OptimisticUpdate(t *testing.T) {
	store := newTestStore(t)
	fx := seedWedding(t, store)
	ctx := context.Background()

	guest, err := store.GetGuestWithInvitations(ctx, "g1")
	require.NoError(t, err)
	ctrl := NewRSVPController(NewRSVPService(store), guest)
	id := fx.invites[0].ID

	entry, err := ctrl.SetStatus(ctx, id, models.RSVPYes)
	require.NoError(t, err)
	assert.True(t, entry.ShowGuestCount())
	assert.Equal(t, 1, entry.GuestCount)

	entry, err = ctrl.IncrementGuests(ctx, id)
	require.NoError(t, err)
	entry, err = ctrl.IncrementGuests(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 3, entry.GuestCount)

	entry, err = ctrl.SetStatus(ctx, id, models.RSVPNo)
	require.NoError(t, err)
	assert.False(t, entry.ShowGuestCount())
	assert.Equal(t, 0, entry.GuestCount)

	stored, err := store.GetInvitation(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.RSVPNo, stored.RSVPStatus)
	assert.Equal(t, 0, stored.PlusOnes)

	_, err = ctrl.SetGuestCount(ctx, id, 2)
	assert.ErrorIs(t, err, ErrInvalidPlusOnes, "count is only editable after yes")

	entries := ctrl.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "Mehendi", entries[0].EventName)
}

func TestRSVPController_RollsBackOnFailure(t *testing.T) {
	store := newTestStore(t)
	fx := seedWedding(t, store)
	ctx := context.Background()

	flaky := &flakyStore{WeddingStore: store}
	guest, err := store.GetGuestWithInvitations(ctx, "g1")
	require.NoError(t, err)
	ctrl := NewRSVPController(NewRSVPService(flaky), guest)
	id := fx.invites[0].ID

	_, err = ctrl.SetStatus(ctx, id, models.RSVPYes)
	require.NoError(t, err)

	flaky.failing.Store(true)
	entry, err := ctrl.SetStatus(ctx, id, models.RSVPNo)
	require.Error(t, err)
	assert.Equal(t, models.RSVPYes, entry.Status)
	assert.Equal(t, 1, entry.GuestCount)

	current, _ := ctrl.Entry(id)
	assert.Equal(t, models.RSVPYes, current.Status)

	_, err = ctrl.DecrementGuests(ctx, id)
	require.Error(t, err)
	current, _ = ctrl.Entry(id)
	assert.Equal(t, 1, current.GuestCount)

	stored, err := store.GetInvitation(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.RSVPYes, stored.RSVPStatus)
}

func TestKeyedMutex_IndependentKeys(t *testing.T) {
	k := newKeyedMutex()
	unlockA := k.Lock("a")

	done := make(chan struct{})
	go func() {
		unlockB := k.Lock("b")
		unlockB()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on b blocked behind a")
	}
	unlockA()
	assert.Equal(t, 0, k.size())
}
