package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"vendora/internal/domain/address"
	"vendora/internal/events"
	"vendora/internal/repository"
	vendora_errors "vendora/pkg/errors"
	"vendora/pkg/logger"
)

// AddressService enforces the default-flag invariant: an owner with at least
// one address has exactly one default. Every mutation takes the owner's
// advisory lock before touching a row, so concurrent writers serialize.
type AddressService struct {
	uow       repository.UnitOfWork
	addresses repository.AddressRepository
	log       *logger.Logger
	clock     func() time.Time
}

func NewAddressService(uow repository.UnitOfWork, addresses repository.AddressRepository, log *logger.Logger) *AddressService {
	return &AddressService{
		uow:       uow,
		addresses: addresses,
		log:       log,
		clock:     time.Now,
	}
}

type CreateAddressInput struct {
	Label      string
	Line1      string
	Line2      string
	City       string
	PostalCode string
	Country    string
	Phone      string
	IsDefault  bool
}

func (in CreateAddressInput) validate() []string {
	var violations []string
	if in.Line1 == "" {
		violations = append(violations, "line1 is required")
	}
	if in.City == "" {
		violations = append(violations, "city is required")
	}
	if in.PostalCode == "" {
		violations = append(violations, "postal code is required")
	}
	if in.Country == "" {
		violations = append(violations, "country is required")
	}
	return violations
}

// Create inserts an address. The owner's first address becomes the default
// regardless of the request; an explicit default request demotes the previous
// one inside the same locked transaction.
func (s *AddressService) Create(ctx context.Context, ownerID uuid.UUID, input CreateAddressInput) (address.Address, error) {
	if err := vendora_errors.NewValidationError(input.validate()); err != nil {
		return address.Address{}, err
	}

	now := s.clock()
	a := address.Address{
		ID:         uuid.New(),
		OwnerID:    ownerID,
		Label:      input.Label,
		Line1:      input.Line1,
		Line2:      input.Line2,
		City:       input.City,
		PostalCode: input.PostalCode,
		Country:    input.Country,
		Phone:      input.Phone,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err := s.uow.Execute(ctx, func(tx repository.Tx) error {
		if err := tx.AcquireOwnerLock(ctx, ownerID); err != nil {
			return err
		}
		count, err := tx.Addresses().CountByOwner(ctx, ownerID)
		if err != nil {
			return err
		}
		a.IsDefault = input.IsDefault || count == 0
		if a.IsDefault && count > 0 {
			if err := tx.Addresses().ClearDefaults(ctx, ownerID); err != nil {
				return err
			}
		}
		if err := tx.Addresses().Create(ctx, &a); err != nil {
			return err
		}
		return appendOutboxEvent(ctx, tx.Outbox(), events.AggregateAddress, events.EventTypeAddressCreated, a.ID.String(), now, a.ID)
	})
	if err != nil {
		return address.Address{}, err
	}
	return a, nil
}

// SetDefault marks the target as the owner's single default. Clear-then-set
// under the owner lock; two concurrent calls serialize and each leaves
// exactly one default.
func (s *AddressService) SetDefault(ctx context.Context, ownerID, targetID uuid.UUID) (address.Address, error) {
	var target address.Address
	err := s.uow.Execute(ctx, func(tx repository.Tx) error {
		if err := tx.AcquireOwnerLock(ctx, ownerID); err != nil {
			return err
		}
		a, err := tx.Addresses().GetByID(ctx, targetID)
		if err != nil {
			return err
		}
		if a.OwnerID != ownerID {
			return vendora_errors.ErrForbidden
		}
		if err := tx.Addresses().ClearDefaults(ctx, ownerID); err != nil {
			return err
		}
		if err := tx.Addresses().MarkDefault(ctx, a.ID); err != nil {
			return err
		}
		a.IsDefault = true
		target = a
		return appendOutboxEvent(ctx, tx.Outbox(), events.AggregateAddress, events.EventTypeAddressDefaultChanged, a.ID.String(), s.clock(), events.AddressDefaultChangedPayload{
			OwnerID:   ownerID,
			AddressID: a.ID,
		})
	})
	if err != nil {
		return address.Address{}, err
	}
	return target, nil
}

// DeleteWithReassignment removes an address. Deleting the current default
// with siblings remaining needs a caller-supplied replacement policy; the
// service never leaves a non-empty owner without a default and never picks a
// successor on its own.
func (s *AddressService) DeleteWithReassignment(ctx context.Context, ownerID, targetID uuid.UUID, policy address.ReplacementPolicy) error {
	return s.uow.Execute(ctx, func(tx repository.Tx) error {
		if err := tx.AcquireOwnerLock(ctx, ownerID); err != nil {
			return err
		}
		a, err := tx.Addresses().GetByID(ctx, targetID)
		if err != nil {
			return err
		}
		if a.OwnerID != ownerID {
			return vendora_errors.ErrForbidden
		}

		count, err := tx.Addresses().CountByOwner(ctx, ownerID)
		if err != nil {
			return err
		}

		var promoted *uuid.UUID
		if a.IsDefault && count > 1 {
			successor, err := s.pickSuccessor(ctx, tx, ownerID, targetID, policy)
			if err != nil {
				return err
			}
			if err := tx.Addresses().MarkDefault(ctx, successor); err != nil {
				return err
			}
			promoted = &successor
		}

		if err := tx.Addresses().Delete(ctx, targetID); err != nil {
			return err
		}

		return appendOutboxEvent(ctx, tx.Outbox(), events.AggregateAddress, events.EventTypeAddressDeleted, targetID.String(), s.clock(), events.AddressDeletedPayload{
			OwnerID:    ownerID,
			AddressID:  targetID,
			PromotedID: promoted,
			WasDefault: a.IsDefault,
			RowsRemain: count > 1,
		})
	})
}

func (s *AddressService) pickSuccessor(ctx context.Context, tx repository.Tx, ownerID, targetID uuid.UUID, policy address.ReplacementPolicy) (uuid.UUID, error) {
	if policy.IsZero() {
		return uuid.Nil, vendora_errors.NewValidationError([]string{"replacement policy is required when deleting the default address"})
	}
	if policy.ReplacementID.Valid {
		replacement, err := tx.Addresses().GetByID(ctx, policy.ReplacementID.UUID)
		if err != nil {
			return uuid.Nil, err
		}
		if replacement.OwnerID != ownerID || replacement.ID == targetID {
			return uuid.Nil, vendora_errors.ErrInvalidInput
		}
		return replacement.ID, nil
	}
	newest, err := tx.Addresses().NewestByOwner(ctx, ownerID, targetID)
	if err != nil {
		return uuid.Nil, err
	}
	return newest.ID, nil
}

func (s *AddressService) Get(ctx context.Context, ownerID, id uuid.UUID) (address.Address, error) {
	a, err := s.addresses.GetByID(ctx, id)
	if err != nil {
		return address.Address{}, err
	}
	if a.OwnerID != ownerID {
		return address.Address{}, vendora_errors.ErrForbidden
	}
	return a, nil
}

func (s *AddressService) List(ctx context.Context, ownerID uuid.UUID) ([]address.Address, error) {
	return s.addresses.ListByOwner(ctx, ownerID)
}
