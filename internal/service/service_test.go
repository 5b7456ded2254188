package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/billsplit/internal/ledger"
	"github.com/mmynk/billsplit/internal/models"
	"github.com/mmynk/billsplit/internal/money"
	"github.com/mmynk/billsplit/internal/storage"
	"github.com/mmynk/billsplit/internal/storage/memory"
	"github.com/mmynk/billsplit/internal/storage/sqlite"
)

// failingStore wraps a store and fails every update once armed.
type failingStore struct {
	storage.Store
	failUpdates bool
}

func (f *failingStore) UpdateLedger(ctx context.Context, l *models.Ledger) error {
	if f.failUpdates {
		return errors.New("disk full")
	}
	return f.Store.UpdateLedger(ctx, l)
}

// setupTestService creates a service over a SQLite database in a temp dir.
func setupTestService(t *testing.T) (*Service, *prometheus.Registry) {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	reg := prometheus.NewRegistry()
	return New(store, WithRegisterer(reg)), reg
}

func TestCreateAndReopen(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	sess, err := svc.Create(ctx, "Friday Dinner")
	require.NoError(t, err)
	require.NotEmpty(t, sess.ID())

	var alice, bob string
	err = sess.Apply(ctx, "Setup", func(l *ledger.Ledger) error {
		var err error
		if alice, err = l.AddParticipant("Alice"); err != nil {
			return err
		}
		if bob, err = l.AddParticipant("Bob"); err != nil {
			return err
		}
		pizza, err := l.AddLineItem("Pizza", money.MustParse("10.00"))
		if err != nil {
			return err
		}
		l.SetLineItemParticipants(pizza, []string{alice, bob})
		l.TogglePayer(alice)
		return l.SetTotalTax(money.MustParse("1.00"))
	})
	require.NoError(t, err)

	reopened, err := svc.Open(ctx, sess.ID())
	require.NoError(t, err)

	snap := reopened.Snapshot()
	assert.Equal(t, "Friday Dinner", snap.EventName)
	assert.Equal(t, "11.00", snap.TotalPrice.String())
	assert.Equal(t, "5.50", snap.ComputedShares[alice].String())
	assert.Equal(t, "5.50", snap.ComputedShares[bob].String())
	assert.Equal(t, sess.Snapshot().SummaryText, snap.SummaryText)
	assert.Contains(t, snap.SummaryText, "Alice [PAYER]")
}

func TestApplyRollsBackOnValidationError(t *testing.T) {
	svc, reg := setupTestService(t)
	ctx := context.Background()

	sess, err := svc.Create(ctx, "Lunch")
	require.NoError(t, err)

	err = sess.Apply(ctx, "AddTwo", func(l *ledger.Ledger) error {
		if _, err := l.AddParticipant("Ana"); err != nil {
			return err
		}
		_, err := l.AddParticipant("  ")
		return err
	})
	require.Error(t, err)
	assert.True(t, ledger.IsValidation(err))

	assert.Empty(t, sess.Snapshot().Participants, "the first add must be rolled back too")
	stored, err := svc.Open(ctx, sess.ID())
	require.NoError(t, err)
	assert.Empty(t, stored.Snapshot().Participants)

	assert.Equal(t, 1.0, testutil.ToFloat64(svc.metrics.operations.WithLabelValues("AddTwo", resultInvalid)))
	count, err := testutil.GatherAndCount(reg, "billsplit_operations_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count, "Create ok and AddTwo invalid")
}

func TestApplyRollsBackWhenSaveFails(t *testing.T) {
	store := &failingStore{Store: memory.New()}
	svc := New(store)
	ctx := context.Background()

	sess, err := svc.Create(ctx, "Trip")
	require.NoError(t, err)

	store.failUpdates = true
	err = sess.Apply(ctx, "AddParticipant", func(l *ledger.Ledger) error {
		_, err := l.AddParticipant("Ana")
		return err
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Empty(t, sess.Snapshot().Participants)
	assert.Equal(t, 1.0, testutil.ToFloat64(svc.metrics.operations.WithLabelValues("AddParticipant", resultError)))
}

func TestImport(t *testing.T) {
	svc := New(memory.New())
	ctx := context.Background()

	rec := models.Ledger{
		ID:        "from-elsewhere",
		EventName: "Imported",
		TotalTax:  money.MustParse("0.60"),
		Participants: []models.Participant{
			{ID: "p1", Name: "Ana"},
			{ID: "p2", Name: "Ben"},
			{ID: "p3", Name: "Cid"},
		},
		LineItems: []models.LineItem{
			{ID: "i1", Name: "Tea", Price: money.MustParse("3.00"), ParticipantIDs: []string{"p1", "p2", "p3"}},
		},
	}

	sess, err := svc.Import(ctx, rec)
	require.NoError(t, err)
	assert.NotEqual(t, "from-elsewhere", sess.ID())

	snap := sess.Snapshot()
	for _, id := range []string{"p1", "p2", "p3"} {
		assert.Equal(t, "1.20", snap.ComputedShares[id].String())
	}
	assert.Equal(t, "3.60", snap.TotalPrice.String())

	_, err = svc.Import(ctx, models.Ledger{TotalTax: money.MustParse("-1")})
	assert.True(t, ledger.IsValidation(err))
}

func TestListAndDelete(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		sess, err := svc.Create(ctx, fmt.Sprintf("Event %d", i))
		require.NoError(t, err)
		ids = append(ids, sess.ID())
	}

	infos, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, infos, 3)

	require.NoError(t, svc.Delete(ctx, ids[1]))
	_, err = svc.Open(ctx, ids[1])
	assert.ErrorIs(t, err, storage.ErrNotFound)

	err = svc.Delete(ctx, ids[1])
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestCascadeIsPersisted(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	sess, err := svc.Create(ctx, "Coffee run")
	require.NoError(t, err)

	var a, b, coffee string
	require.NoError(t, sess.Apply(ctx, "Setup", func(l *ledger.Ledger) error {
		a, _ = l.AddParticipant("A")
		b, _ = l.AddParticipant("B")
		var err error
		coffee, err = l.AddLineItem("Coffee", money.MustParse("3.00"))
		l.AddLineItemParticipant(coffee, a)
		return err
	}))
	require.NoError(t, sess.Apply(ctx, "RemoveParticipant", func(l *ledger.Ledger) error {
		l.RemoveParticipant(a)
		return nil
	}))

	reopened, err := svc.Open(ctx, sess.ID())
	require.NoError(t, err)
	snap := reopened.Snapshot()

	require.Len(t, snap.LineItems, 1)
	assert.Empty(t, snap.LineItems[0].ParticipantIDs)
	_, hasA := snap.ComputedShares[a]
	assert.False(t, hasA)
	assert.Equal(t, "0.00", snap.ComputedShares[b].String())
	assert.Equal(t, "0.00", snap.TotalPrice.String())
}
