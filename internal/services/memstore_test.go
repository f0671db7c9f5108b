package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"vendora/internal/domain/address"
	"vendora/internal/domain/catalog"
	"vendora/internal/domain/draft"
	"vendora/internal/domain/outbox"
	"vendora/internal/repository"
	vendora_errors "vendora/pkg/errors"
	"vendora/pkg/logger"
)

// memStore backs the service tests with the same semantics the SQL layer
// provides: transactions are serialized, roll back on error, and the partial
// unique indexes (one open queue item per draft, one default address per
// owner at the storage level via ClearDefaults ordering) are enforced.
type memStore struct {
	mu        sync.Mutex
	drafts    map[uuid.UUID]draft.Draft
	queue     map[uuid.UUID]draft.QueueItem
	products  map[uuid.UUID]catalog.Product
	variants  []catalog.Variant
	images    []catalog.Image
	addresses map[uuid.UUID]address.Address
	events    []outbox.Event
	failures  map[string]error
	hooks     map[string]func()

	// codeAlwaysTaken makes every generated product code collide.
	codeAlwaysTaken bool
}

func newMemStore() *memStore {
	return &memStore{
		drafts:    make(map[uuid.UUID]draft.Draft),
		queue:     make(map[uuid.UUID]draft.QueueItem),
		products:  make(map[uuid.UUID]catalog.Product),
		addresses: make(map[uuid.UUID]address.Address),
		failures:  make(map[string]error),
		hooks:     make(map[string]func()),
	}
}

// failOn injects an error into the named repository operation.
func (s *memStore) failOn(op string, err error) {
	s.failures[op] = err
}

func (s *memStore) failure(op string) error {
	return s.failures[op]
}

// hookOn registers a one-shot callback that runs at the start of the named
// repository operation, before its own checks. It stands in for a write
// another transaction committed between this transaction's read and its
// write, which the conditional predicates must catch.
func (s *memStore) hookOn(op string, fn func()) {
	s.hooks[op] = fn
}

func (s *memStore) fireHook(op string) {
	if fn, ok := s.hooks[op]; ok {
		delete(s.hooks, op)
		fn()
	}
}

type memSnapshot struct {
	drafts    map[uuid.UUID]draft.Draft
	queue     map[uuid.UUID]draft.QueueItem
	products  map[uuid.UUID]catalog.Product
	variants  []catalog.Variant
	images    []catalog.Image
	addresses map[uuid.UUID]address.Address
	events    []outbox.Event
}

func (s *memStore) snapshot() memSnapshot {
	snap := memSnapshot{
		drafts:    make(map[uuid.UUID]draft.Draft, len(s.drafts)),
		queue:     make(map[uuid.UUID]draft.QueueItem, len(s.queue)),
		products:  make(map[uuid.UUID]catalog.Product, len(s.products)),
		addresses: make(map[uuid.UUID]address.Address, len(s.addresses)),
		variants:  append([]catalog.Variant(nil), s.variants...),
		images:    append([]catalog.Image(nil), s.images...),
		events:    append([]outbox.Event(nil), s.events...),
	}
	for k, v := range s.drafts {
		snap.drafts[k] = v
	}
	for k, v := range s.queue {
		snap.queue[k] = v
	}
	for k, v := range s.products {
		snap.products[k] = v
	}
	for k, v := range s.addresses {
		snap.addresses[k] = v
	}
	return snap
}

func (s *memStore) restore(snap memSnapshot) {
	s.drafts = snap.drafts
	s.queue = snap.queue
	s.products = snap.products
	s.variants = snap.variants
	s.images = snap.images
	s.addresses = snap.addresses
	s.events = snap.events
}

// pendingEvents returns the outbox rows of one event type.
func (s *memStore) eventsOfType(eventType string) []outbox.Event {
	var out []outbox.Event
	for _, e := range s.events {
		if e.EventType == eventType {
			out = append(out, e)
		}
	}
	return out
}

// memUoW serializes transactions the way the advisory-locked SQL unit of
// work does, restoring the pre-transaction state when the closure fails.
type memUoW struct {
	store *memStore
}

func (u *memUoW) Execute(ctx context.Context, fn func(tx repository.Tx) error) error {
	u.store.mu.Lock()
	defer u.store.mu.Unlock()

	snap := u.store.snapshot()
	if err := fn(&memTx{store: u.store}); err != nil {
		u.store.restore(snap)
		return err
	}
	return nil
}

type memTx struct {
	store *memStore
}

func (t *memTx) Drafts() repository.DraftRepository     { return &memDraftRepo{store: t.store} }
func (t *memTx) Queue() repository.QueueRepository      { return &memQueueRepo{store: t.store} }
func (t *memTx) Products() repository.ProductRepository { return &memProductRepo{store: t.store} }
func (t *memTx) Addresses() repository.AddressRepository {
	return &memAddressRepo{store: t.store}
}
func (t *memTx) Outbox() repository.OutboxRepository { return &memOutboxRepo{store: t.store} }

func (t *memTx) AcquireOwnerLock(ctx context.Context, ownerID uuid.UUID) error {
	return t.store.failure("lock")
}

type memDraftRepo struct {
	store *memStore
}

func (r *memDraftRepo) Create(ctx context.Context, d *draft.Draft) error {
	if err := r.store.failure("draft.create"); err != nil {
		return err
	}
	if _, ok := r.store.drafts[d.ID]; ok {
		return vendora_errors.ErrAlreadyExists
	}
	r.store.drafts[d.ID] = *d
	return nil
}

func (r *memDraftRepo) GetByID(ctx context.Context, id uuid.UUID) (draft.Draft, error) {
	d, ok := r.store.drafts[id]
	if !ok {
		return draft.Draft{}, vendora_errors.ErrNotFound
	}
	return d, nil
}

func (r *memDraftRepo) Update(ctx context.Context, d draft.Draft, from draft.Status) error {
	if err := r.store.failure("draft.update"); err != nil {
		return err
	}
	r.store.fireHook("draft.update")
	existing, ok := r.store.drafts[d.ID]
	if !ok {
		return vendora_errors.ErrNotFound
	}
	if existing.Status != from {
		return vendora_errors.ErrConflict
	}
	r.store.drafts[d.ID] = d
	return nil
}

func (r *memDraftRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.store.drafts[id]; !ok {
		return vendora_errors.ErrNotFound
	}
	delete(r.store.drafts, id)
	return nil
}

func (r *memDraftRepo) ListBySeller(ctx context.Context, sellerID uuid.UUID, page, limit int) ([]draft.Draft, int64, error) {
	var all []draft.Draft
	for _, d := range r.store.drafts {
		if d.SellerID == sellerID {
			all = append(all, d)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	total := int64(len(all))
	offset := (page - 1) * limit
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

type memQueueRepo struct {
	store *memStore
}

func (r *memQueueRepo) Create(ctx context.Context, item *draft.QueueItem) error {
	if err := r.store.failure("queue.create"); err != nil {
		return err
	}
	for _, existing := range r.store.queue {
		if existing.DraftID == item.DraftID && existing.CompletedAt == nil {
			return vendora_errors.ErrAlreadyExists
		}
	}
	r.store.queue[item.ID] = *item
	return nil
}

func (r *memQueueRepo) GetOpenByDraftID(ctx context.Context, draftID uuid.UUID) (draft.QueueItem, error) {
	for _, item := range r.store.queue {
		if item.DraftID == draftID && item.CompletedAt == nil {
			return item, nil
		}
	}
	return draft.QueueItem{}, vendora_errors.ErrNotFound
}

func (r *memQueueRepo) Assign(ctx context.Context, id, moderatorID uuid.UUID) error {
	r.store.fireHook("queue.assign")
	item, ok := r.store.queue[id]
	if !ok || item.CompletedAt != nil {
		return vendora_errors.ErrNotFound
	}
	if item.AssignedTo.Valid && item.AssignedTo.UUID != moderatorID {
		return vendora_errors.ErrConflict
	}
	item.AssignedTo = uuid.NullUUID{UUID: moderatorID, Valid: true}
	r.store.queue[id] = item
	return nil
}

func (r *memQueueRepo) Close(ctx context.Context, id uuid.UUID, completedAt time.Time) error {
	if err := r.store.failure("queue.close"); err != nil {
		return err
	}
	item, ok := r.store.queue[id]
	if !ok || item.CompletedAt != nil {
		return vendora_errors.ErrNotFound
	}
	item.CompletedAt = &completedAt
	r.store.queue[id] = item
	return nil
}

func (r *memQueueRepo) ListOpen(ctx context.Context, page, limit int) ([]draft.QueueItem, int64, error) {
	var open []draft.QueueItem
	for _, item := range r.store.queue {
		if item.CompletedAt == nil {
			open = append(open, item)
		}
	}
	sort.Slice(open, func(i, j int) bool {
		if open[i].Priority.Rank() != open[j].Priority.Rank() {
			return open[i].Priority.Rank() > open[j].Priority.Rank()
		}
		return open[i].CreatedAt.Before(open[j].CreatedAt)
	})
	total := int64(len(open))
	offset := (page - 1) * limit
	if offset >= len(open) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(open) {
		end = len(open)
	}
	return open[offset:end], total, nil
}

func (r *memQueueRepo) EscalateUnassignedOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	var n int64
	for id, item := range r.store.queue {
		if item.CompletedAt != nil || item.AssignedTo.Valid {
			continue
		}
		if item.Priority != draft.PriorityLow && item.Priority != draft.PriorityNormal {
			continue
		}
		if !item.CreatedAt.Before(cutoff) {
			continue
		}
		item.Priority = draft.PriorityHigh
		r.store.queue[id] = item
		n++
	}
	return n, nil
}

type memProductRepo struct {
	store *memStore
}

func (r *memProductRepo) Create(ctx context.Context, p *catalog.Product) error {
	if err := r.store.failure("product.create"); err != nil {
		return err
	}
	for _, existing := range r.store.products {
		if existing.Code == p.Code {
			return vendora_errors.ErrAlreadyExists
		}
	}
	r.store.products[p.ID] = *p
	return nil
}

func (r *memProductRepo) CreateVariant(ctx context.Context, v *catalog.Variant) error {
	if err := r.store.failure("product.createVariant"); err != nil {
		return err
	}
	for _, existing := range r.store.variants {
		if existing.SKU == v.SKU {
			return vendora_errors.ErrAlreadyExists
		}
	}
	r.store.variants = append(r.store.variants, *v)
	return nil
}

func (r *memProductRepo) CreateImage(ctx context.Context, img *catalog.Image) error {
	r.store.images = append(r.store.images, *img)
	return nil
}

func (r *memProductRepo) GetByID(ctx context.Context, id uuid.UUID) (catalog.Product, error) {
	p, ok := r.store.products[id]
	if !ok {
		return catalog.Product{}, vendora_errors.ErrNotFound
	}
	return p, nil
}

func (r *memProductRepo) CodeExists(ctx context.Context, code string) (bool, error) {
	if err := r.store.failure("product.codeExists"); err != nil {
		return false, err
	}
	if r.store.codeAlwaysTaken {
		return true, nil
	}
	for _, p := range r.store.products {
		if p.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (r *memProductRepo) GetVariants(ctx context.Context, productID uuid.UUID) ([]catalog.Variant, error) {
	var out []catalog.Variant
	for _, v := range r.store.variants {
		if v.ProductID == productID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *memProductRepo) GetImages(ctx context.Context, productID uuid.UUID) ([]catalog.Image, error) {
	var out []catalog.Image
	for _, img := range r.store.images {
		if img.ProductID == productID {
			out = append(out, img)
		}
	}
	return out, nil
}

type memAddressRepo struct {
	store *memStore
}

func (r *memAddressRepo) Create(ctx context.Context, a *address.Address) error {
	if err := r.store.failure("address.create"); err != nil {
		return err
	}
	r.store.addresses[a.ID] = *a
	return nil
}

func (r *memAddressRepo) GetByID(ctx context.Context, id uuid.UUID) (address.Address, error) {
	a, ok := r.store.addresses[id]
	if !ok {
		return address.Address{}, vendora_errors.ErrNotFound
	}
	return a, nil
}

func (r *memAddressRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]address.Address, error) {
	var out []address.Address
	for _, a := range r.store.addresses {
		if a.OwnerID == ownerID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsDefault != out[j].IsDefault {
			return out[i].IsDefault
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *memAddressRepo) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var n int64
	for _, a := range r.store.addresses {
		if a.OwnerID == ownerID {
			n++
		}
	}
	return n, nil
}

func (r *memAddressRepo) ClearDefaults(ctx context.Context, ownerID uuid.UUID) error {
	if err := r.store.failure("address.clearDefaults"); err != nil {
		return err
	}
	for id, a := range r.store.addresses {
		if a.OwnerID == ownerID && a.IsDefault {
			a.IsDefault = false
			r.store.addresses[id] = a
		}
	}
	return nil
}

func (r *memAddressRepo) MarkDefault(ctx context.Context, id uuid.UUID) error {
	if err := r.store.failure("address.markDefault"); err != nil {
		return err
	}
	a, ok := r.store.addresses[id]
	if !ok {
		return vendora_errors.ErrNotFound
	}
	a.IsDefault = true
	r.store.addresses[id] = a
	return nil
}

func (r *memAddressRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.store.failure("address.delete"); err != nil {
		return err
	}
	if _, ok := r.store.addresses[id]; !ok {
		return vendora_errors.ErrNotFound
	}
	delete(r.store.addresses, id)
	return nil
}

func (r *memAddressRepo) NewestByOwner(ctx context.Context, ownerID, excluding uuid.UUID) (address.Address, error) {
	var newest *address.Address
	for _, a := range r.store.addresses {
		if a.OwnerID != ownerID || a.ID == excluding {
			continue
		}
		a := a
		if newest == nil || a.CreatedAt.After(newest.CreatedAt) {
			newest = &a
		}
	}
	if newest == nil {
		return address.Address{}, vendora_errors.ErrNotFound
	}
	return *newest, nil
}

type memOutboxRepo struct {
	store *memStore
}

func (r *memOutboxRepo) Create(ctx context.Context, event *outbox.Event) error {
	if err := r.store.failure("outbox.create"); err != nil {
		return err
	}
	r.store.events = append(r.store.events, *event)
	return nil
}

func (r *memOutboxRepo) GetPending(ctx context.Context, limit int) ([]outbox.Event, error) {
	var out []outbox.Event
	for _, e := range r.store.events {
		if e.Status == outbox.StatusPending {
			out = append(out, e)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *memOutboxRepo) MarkProcessing(ctx context.Context, id uuid.UUID) error {
	return r.setStatus(id, outbox.StatusProcessing)
}

func (r *memOutboxRepo) MarkCompleted(ctx context.Context, id uuid.UUID) error {
	return r.setStatus(id, outbox.StatusCompleted)
}

func (r *memOutboxRepo) MarkFailed(ctx context.Context, id uuid.UUID, errorMsg string) error {
	return r.setStatus(id, outbox.StatusFailed)
}

func (r *memOutboxRepo) IncrementRetry(ctx context.Context, id uuid.UUID) error {
	for i := range r.store.events {
		if r.store.events[i].ID == id {
			r.store.events[i].RetryCount++
			r.store.events[i].Status = outbox.StatusPending
			return nil
		}
	}
	return vendora_errors.ErrNotFound
}

func (r *memOutboxRepo) setStatus(id uuid.UUID, status outbox.Status) error {
	for i := range r.store.events {
		if r.store.events[i].ID == id {
			r.store.events[i].Status = status
			return nil
		}
	}
	return vendora_errors.ErrNotFound
}

// Outbound client fakes.

type fakeCatalog struct {
	exists bool
	err    error
}

func (f *fakeCatalog) CategoryExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return f.exists, f.err
}

type fakeSeller struct {
	mu         sync.Mutex
	increments int
	err        error
}

func (f *fakeSeller) IncrementProductCount(ctx context.Context, sellerID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.increments++
	return nil
}

type fakeNotifier struct {
	mu       sync.Mutex
	approved []uuid.UUID
	rejected []uuid.UUID
	err      error
}

func (f *fakeNotifier) NotifyApproved(ctx context.Context, sellerID, draftID uuid.UUID, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.approved = append(f.approved, draftID)
	return nil
}

func (f *fakeNotifier) NotifyRejected(ctx context.Context, sellerID, draftID uuid.UUID, name, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.rejected = append(f.rejected, draftID)
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.DevelopmentMode)
}
