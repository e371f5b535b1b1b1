package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/admedia/AMS-AdSalesService/internal/domain"
	slotRepo "github.com/admedia/AMS-AdSalesService/internal/infra/storage/slot"
	"github.com/admedia/AMS-AdSalesService/pkg/clock"
)

// Service is the read/admin surface over slot definitions and their manual
// block windows.
type Service struct {
	slotRepo      SlotRepository
	workOrderRepo WorkOrderRepository
	txManager     TransactionManager
	clock         clock.Clock
	logger        Logger
}

// NewService creates the inventory catalog service.
func NewService(
	slotRepo SlotRepository,
	workOrderRepo WorkOrderRepository,
	txManager TransactionManager,
	clk clock.Clock,
	logger Logger,
) *Service {
	return &Service{
		slotRepo:      slotRepo,
		workOrderRepo: workOrderRepo,
		txManager:     txManager,
		clock:         clk,
		logger:        logger,
	}
}

// CreateSlot registers a new inventory slot.
func (s *Service) CreateSlot(ctx context.Context, slot *domain.Slot) (*domain.Slot, error) {
	if !slot.MediaType.Valid() {
		return nil, fmt.Errorf("%w: unknown media type %q", domain.ErrValidation, slot.MediaType)
	}
	if slot.MediaType == domain.MediaWebsite && slot.PageType == "" {
		return nil, fmt.Errorf("%w: website slots require a page type", domain.ErrValidation)
	}
	if slot.Name == "" {
		return nil, fmt.Errorf("%w: slot name is required", domain.ErrValidation)
	}

	created, err := s.slotRepo.Create(ctx, slot)
	if err != nil {
		s.logger.Error("CreateSlot: repository error: %v", err)
		return nil, fmt.Errorf("%w: CreateSlot - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateSlot: created slot id=%d media=%s section=%s", created.ID, created.MediaType, created.SectionKey())
	return created, nil
}

// GetSlot fetches one slot.
func (s *Service) GetSlot(ctx context.Context, id int64) (*domain.Slot, error) {
	slot, err := s.slotRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			return nil, ErrSlotNotFound
		}
		s.logger.Error("GetSlot: repository error for id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetSlot - repository error: %v", ErrInternal, err)
	}
	return slot, nil
}

// ListSlots fetches slots matching the filter.
func (s *Service) ListSlots(ctx context.Context, filter domain.SlotFilter) ([]*domain.Slot, error) {
	slots, err := s.slotRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("ListSlots: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListSlots - repository error: %v", ErrInternal, err)
	}
	return slots, nil
}

// SetManualBlock puts a block window on a slot. Fails with a conflict when
// the window overlaps any non-rejected work order item referencing the slot:
// a manager cannot retroactively block inventory a client already purchased.
func (s *Service) SetManualBlock(ctx context.Context, slotID int64, window domain.DateRange, reason string, managerID int64) (*domain.Slot, error) {
	if err := window.Validate(); err != nil {
		return nil, err
	}
	if len(reason) > domain.MaxBlockReasonLength {
		return nil, fmt.Errorf("%w: block reason exceeds %d characters", domain.ErrValidation, domain.MaxBlockReasonLength)
	}

	var blocked *domain.Slot

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		slot, err := s.slotRepo.GetByID(txCtx, slotID)
		if err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				return ErrSlotNotFound
			}
			return fmt.Errorf("%w: SetManualBlock - get slot: %v", ErrInternal, err)
		}

		sold, err := s.workOrderRepo.GetItemsBySlotOverlapping(txCtx, slotID, window)
		if err != nil {
			return fmt.Errorf("%w: SetManualBlock - get sold items: %v", ErrInternal, err)
		}
		if len(sold) > 0 {
			s.logger.Warn("SetManualBlock: slot id=%d window %s overlaps sold item id=%d (%s)",
				slotID, window, sold[0].ID, sold[0].Range)
			return fmt.Errorf("%w: block window %s overlaps purchased inventory (item id=%d)",
				domain.ErrConflict, window, sold[0].ID)
		}

		block := domain.ManualBlock{
			Window:    window,
			Reason:    reason,
			ManagerID: managerID,
			SetAt:     s.clock.Now(),
		}
		if err := s.slotRepo.SetManualBlock(txCtx, slotID, block); err != nil {
			return fmt.Errorf("%w: SetManualBlock - update slot: %v", ErrInternal, err)
		}

		slot.ManualBlock = &block
		blocked = slot
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("SetManualBlock: slot id=%d blocked %s by manager=%d", slotID, window, managerID)
	return blocked, nil
}

// ClearManualBlock removes the block window from a slot.
func (s *Service) ClearManualBlock(ctx context.Context, slotID int64) error {
	if err := s.slotRepo.ClearManualBlock(ctx, slotID); err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			return ErrSlotNotFound
		}
		s.logger.Error("ClearManualBlock: repository error for id=%d: %v", slotID, err)
		return fmt.Errorf("%w: ClearManualBlock - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ClearManualBlock: slot id=%d unblocked", slotID)
	return nil
}
