package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"vendora/internal/domain/address"
	"vendora/internal/events"
	vendora_errors "vendora/pkg/errors"
)

func newAddressService(store *memStore) *AddressService {
	return NewAddressService(&memUoW{store: store}, &memAddressRepo{store: store}, testLogger())
}

func testAddressInput() CreateAddressInput {
	return CreateAddressInput{
		Label:      "Home",
		Line1:      "12 Elm Street",
		City:       "Springfield",
		PostalCode: "12345",
		Country:    "US",
	}
}

func defaultCount(store *memStore, ownerID uuid.UUID) int {
	n := 0
	for _, a := range store.addresses {
		if a.OwnerID == ownerID && a.IsDefault {
			n++
		}
	}
	return n
}

func TestAddressServiceCreate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("first address becomes the default unconditionally", func(t *testing.T) {
		t.Parallel()
		store := newMemStore()
		svc := newAddressService(store)
		ownerID := uuid.New()

		a, err := svc.Create(ctx, ownerID, testAddressInput())
		require.NoError(t, err)
		require.True(t, a.IsDefault)
		require.Equal(t, 1, defaultCount(store, ownerID))
		require.Len(t, store.eventsOfType(events.EventTypeAddressCreated), 1)
	})

	t.Run("later addresses do not steal the default unless asked", func(t *testing.T) {
		t.Parallel()
		store := newMemStore()
		svc := newAddressService(store)
		ownerID := uuid.New()

		first, err := svc.Create(ctx, ownerID, testAddressInput())
		require.NoError(t, err)

		second, err := svc.Create(ctx, ownerID, testAddressInput())
		require.NoError(t, err)
		require.False(t, second.IsDefault)
		require.True(t, store.addresses[first.ID].IsDefault)
		require.Equal(t, 1, defaultCount(store, ownerID))
	})

	t.Run("an explicit default demotes the previous one", func(t *testing.T) {
		t.Parallel()
		store := newMemStore()
		svc := newAddressService(store)
		ownerID := uuid.New()

		first, err := svc.Create(ctx, ownerID, testAddressInput())
		require.NoError(t, err)

		input := testAddressInput()
		input.IsDefault = true
		second, err := svc.Create(ctx, ownerID, input)
		require.NoError(t, err)
		require.True(t, second.IsDefault)
		require.False(t, store.addresses[first.ID].IsDefault)
		require.Equal(t, 1, defaultCount(store, ownerID))
	})

	t.Run("missing fields are itemized", func(t *testing.T) {
		t.Parallel()
		store := newMemStore()
		svc := newAddressService(store)

		_, err := svc.Create(ctx, uuid.New(), CreateAddressInput{})
		var validation *vendora_errors.ValidationError
		require.ErrorAs(t, err, &validation)
		require.Contains(t, validation.Violations, "line1 is required")
		require.Contains(t, validation.Violations, "country is required")
		require.Empty(t, store.addresses)
	})
}

func TestAddressServiceSetDefault(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("clear then set leaves exactly one default", func(t *testing.T) {
		t.Parallel()
		store := newMemStore()
		svc := newAddressService(store)
		ownerID := uuid.New()

		first, err := svc.Create(ctx, ownerID, testAddressInput())
		require.NoError(t, err)
		second, err := svc.Create(ctx, ownerID, testAddressInput())
		require.NoError(t, err)

		updated, err := svc.SetDefault(ctx, ownerID, second.ID)
		require.NoError(t, err)
		require.True(t, updated.IsDefault)
		require.False(t, store.addresses[first.ID].IsDefault)
		require.Equal(t, 1, defaultCount(store, ownerID))
		require.Len(t, store.eventsOfType(events.EventTypeAddressDefaultChanged), 1)
	})

	t.Run("another owner's address is off limits", func(t *testing.T) {
		t.Parallel()
		store := newMemStore()
		svc := newAddressService(store)
		ownerID := uuid.New()

		a, err := svc.Create(ctx, ownerID, testAddressInput())
		require.NoError(t, err)

		_, err = svc.SetDefault(ctx, uuid.New(), a.ID)
		require.ErrorIs(t, err, vendora_errors.ErrForbidden)
		require.True(t, store.addresses[a.ID].IsDefault)
	})

	t.Run("concurrent calls still leave exactly one default", func(t *testing.T) {
		t.Parallel()
		store := newMemStore()
		svc := newAddressService(store)
		ownerID := uuid.New()

		var ids []uuid.UUID
		for i := 0; i < 8; i++ {
			a, err := svc.Create(ctx, ownerID, testAddressInput())
			require.NoError(t, err)
			ids = append(ids, a.ID)
		}

		var wg sync.WaitGroup
		errs := make(chan error, len(ids))
		for _, id := range ids {
			id := id
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := svc.SetDefault(ctx, ownerID, id)
				errs <- err
			}()
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		require.Equal(t, 1, defaultCount(store, ownerID))
	})
}

func TestAddressServiceDeleteWithReassignment(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("deleting a non-default needs no policy", func(t *testing.T) {
		t.Parallel()
		store := newMemStore()
		svc := newAddressService(store)
		ownerID := uuid.New()

		first, err := svc.Create(ctx, ownerID, testAddressInput())
		require.NoError(t, err)
		second, err := svc.Create(ctx, ownerID, testAddressInput())
		require.NoError(t, err)

		err = svc.DeleteWithReassignment(ctx, ownerID, second.ID, address.ReplacementPolicy{})
		require.NoError(t, err)
		require.NotContains(t, store.addresses, second.ID)
		require.True(t, store.addresses[first.ID].IsDefault)
	})

	t.Run("deleting the default with siblings requires a policy", func(t *testing.T) {
		t.Parallel()
		store := newMemStore()
		svc := newAddressService(store)
		ownerID := uuid.New()

		first, err := svc.Create(ctx, ownerID, testAddressInput())
		require.NoError(t, err)
		_, err = svc.Create(ctx, ownerID, testAddressInput())
		require.NoError(t, err)

		err = svc.DeleteWithReassignment(ctx, ownerID, first.ID, address.ReplacementPolicy{})
		var validation *vendora_errors.ValidationError
		require.ErrorAs(t, err, &validation)
		require.Contains(t, validation.Violations, "replacement policy is required when deleting the default address")
		require.Contains(t, store.addresses, first.ID)
	})

	t.Run("an explicit replacement becomes the default", func(t *testing.T) {
		t.Parallel()
		store := newMemStore()
		svc := newAddressService(store)
		ownerID := uuid.New()

		first, err := svc.Create(ctx, ownerID, testAddressInput())
		require.NoError(t, err)
		second, err := svc.Create(ctx, ownerID, testAddressInput())
		require.NoError(t, err)

		policy := address.ReplacementPolicy{ReplacementID: uuid.NullUUID{UUID: second.ID, Valid: true}}
		err = svc.DeleteWithReassignment(ctx, ownerID, first.ID, policy)
		require.NoError(t, err)
		require.NotContains(t, store.addresses, first.ID)
		require.True(t, store.addresses[second.ID].IsDefault)
		require.Equal(t, 1, defaultCount(store, ownerID))
	})

	t.Run("a replacement owned by someone else is invalid", func(t *testing.T) {
		t.Parallel()
		store := newMemStore()
		svc := newAddressService(store)
		ownerID := uuid.New()

		first, err := svc.Create(ctx, ownerID, testAddressInput())
		require.NoError(t, err)
		_, err = svc.Create(ctx, ownerID, testAddressInput())
		require.NoError(t, err)
		foreign, err := svc.Create(ctx, uuid.New(), testAddressInput())
		require.NoError(t, err)

		policy := address.ReplacementPolicy{ReplacementID: uuid.NullUUID{UUID: foreign.ID, Valid: true}}
		err = svc.DeleteWithReassignment(ctx, ownerID, first.ID, policy)
		require.ErrorIs(t, err, vendora_errors.ErrInvalidInput)
		require.Contains(t, store.addresses, first.ID)
		require.True(t, store.addresses[first.ID].IsDefault)
	})

	t.Run("promote newest picks the most recent remaining row", func(t *testing.T) {
		t.Parallel()
		store := newMemStore()
		svc := newAddressService(store)
		ownerID := uuid.New()

		first, err := svc.Create(ctx, ownerID, testAddressInput())
		require.NoError(t, err)
		second, err := svc.Create(ctx, ownerID, testAddressInput())
		require.NoError(t, err)
		third, err := svc.Create(ctx, ownerID, testAddressInput())
		require.NoError(t, err)

		// Creation timestamps come from the wall clock; force a strict order.
		for i, id := range []uuid.UUID{first.ID, second.ID, third.ID} {
			a := store.addresses[id]
			a.CreatedAt = time.Now().Add(time.Duration(i) * time.Minute)
			store.addresses[id] = a
		}

		err = svc.DeleteWithReassignment(ctx, ownerID, first.ID, address.ReplacementPolicy{PromoteNewest: true})
		require.NoError(t, err)
		require.True(t, store.addresses[third.ID].IsDefault)
		require.False(t, store.addresses[second.ID].IsDefault)
		require.Equal(t, 1, defaultCount(store, ownerID))
	})

	t.Run("the last remaining address can be deleted without a policy", func(t *testing.T) {
		t.Parallel()
		store := newMemStore()
		svc := newAddressService(store)
		ownerID := uuid.New()

		only, err := svc.Create(ctx, ownerID, testAddressInput())
		require.NoError(t, err)

		err = svc.DeleteWithReassignment(ctx, ownerID, only.ID, address.ReplacementPolicy{})
		require.NoError(t, err)
		require.Empty(t, store.addresses)

		deleted := store.eventsOfType(events.EventTypeAddressDeleted)
		require.Len(t, deleted, 1)
		var payload events.AddressDeletedPayload
		require.NoError(t, json.Unmarshal(deleted[0].Payload, &payload))
		require.True(t, payload.WasDefault)
		require.False(t, payload.RowsRemain)
		require.Nil(t, payload.PromotedID)
	})

	t.Run("a storage failure rolls the reassignment back", func(t *testing.T) {
		t.Parallel()
		store := newMemStore()
		svc := newAddressService(store)
		ownerID := uuid.New()

		first, err := svc.Create(ctx, ownerID, testAddressInput())
		require.NoError(t, err)
		second, err := svc.Create(ctx, ownerID, testAddressInput())
		require.NoError(t, err)

		store.failOn("address.delete", errors.New("boom"))
		policy := address.ReplacementPolicy{ReplacementID: uuid.NullUUID{UUID: second.ID, Valid: true}}
		err = svc.DeleteWithReassignment(ctx, ownerID, first.ID, policy)
		require.Error(t, err)

		require.Contains(t, store.addresses, first.ID)
		require.True(t, store.addresses[first.ID].IsDefault)
		require.False(t, store.addresses[second.ID].IsDefault)
		require.Equal(t, 1, defaultCount(store, ownerID))
	})

	t.Run("lock timeout surfaces before any mutation", func(t *testing.T) {
		t.Parallel()
		store := newMemStore()
		svc := newAddressService(store)
		ownerID := uuid.New()

		a, err := svc.Create(ctx, ownerID, testAddressInput())
		require.NoError(t, err)

		store.failOn("lock", vendora_errors.ErrLockTimeout)
		_, err = svc.SetDefault(ctx, ownerID, a.ID)
		require.ErrorIs(t, err, vendora_errors.ErrLockTimeout)
	})
}
