package create_work_order

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/admedia/AMS-AdSalesService/internal/domain"
	slotRepo "github.com/admedia/AMS-AdSalesService/internal/infra/storage/slot"
	"github.com/admedia/AMS-AdSalesService/internal/service/reservations"
)

// AddOnRates carries the configured per-day campaign prices.
type AddOnRates struct {
	EmailPerDay    decimal.Decimal
	WhatsAppPerDay decimal.Decimal
}

// UseCase creates a draft work order: add-on lines are priced from the
// configured rates, slot lines are checked for conflicts and backed by
// shadow bookings. Conflicted slot lines are skipped, not fatal; the client
// sees what could not be taken in the response.
type UseCase struct {
	slotRepo      SlotRepository
	workOrderRepo WorkOrderRepository
	ledger        ReservationLedger
	txManager     TransactionManager
	rates         AddOnRates
	logger        Logger
}

// NewUseCase creates the use case.
func NewUseCase(
	slotRepo SlotRepository,
	workOrderRepo WorkOrderRepository,
	ledger ReservationLedger,
	txManager TransactionManager,
	rates AddOnRates,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:      slotRepo,
		workOrderRepo: workOrderRepo,
		ledger:        ledger,
		txManager:     txManager,
		rates:         rates,
		logger:        logger,
	}
}

// Execute creates the draft inside one serializable transaction: conflict
// checks, shadow bookings and item rows commit or roll back as a unit.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateWorkOrder: client=%d, items=%d, paymentMode=%s", req.ClientID, len(req.Items), req.PaymentMode)

	// 1. Validate shape and parse item ranges.
	parsed, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("CreateWorkOrder: validation failed: %v", err)
		return nil, err
	}

	var resp *Response

	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 2. Resolve slots and reject same-request duplicate sections.
		slots := make(map[int64]*domain.Slot)
		var sectionKeys []string
		for _, item := range parsed {
			if item.slotID == nil {
				continue
			}
			if _, ok := slots[*item.slotID]; !ok {
				slot, err := uc.slotRepo.GetByID(txCtx, *item.slotID)
				if err != nil {
					if errors.Is(err, slotRepo.ErrSlotNotFound) {
						return fmt.Errorf("%w: id=%d", ErrSlotNotFound, *item.slotID)
					}
					return fmt.Errorf("%w: get slot id=%d: %v", ErrInternal, *item.slotID, err)
				}
				slots[*item.slotID] = slot
			}
			sectionKeys = append(sectionKeys, slots[*item.slotID].SectionKey())
		}
		if err := validateNoDuplicateSections(sectionKeys); err != nil {
			return err
		}

		// 3. Create the draft order row.
		wo, err := uc.workOrderRepo.Create(txCtx, &domain.WorkOrder{
			ClientID:    req.ClientID,
			Status:      domain.WOStatusDraft,
			PaymentMode: domain.PaymentMode(req.PaymentMode),
			GSTPercent:  decimal.Zero,
			TotalAmount: decimal.Zero,
		})
		if err != nil {
			return fmt.Errorf("%w: create draft: %v", ErrInternal, err)
		}

		// 4. Take each line; conflicted slot lines are skipped with a warning.
		var (
			accepted []ResponseItem
			skipped  []SkippedItem
		)
		for _, item := range parsed {
			if item.addOn != nil {
				price := uc.addOnPrice(*item.addOn, item.rng)
				line := &domain.WorkOrderItem{
					WorkOrderID: wo.ID,
					AddOnType:   item.addOn,
					Range:       item.rng,
					Price:       price,
				}
				if err := uc.workOrderRepo.AddItem(txCtx, line); err != nil {
					return fmt.Errorf("%w: add add-on item: %v", ErrInternal, err)
				}
				accepted = append(accepted, toResponseItem(line))
				continue
			}

			slot := slots[*item.slotID]
			booking, err := uc.ledger.CreateBooking(txCtx, reservationParams(req.ClientID, slot.ID, item.rng, wo.ID))
			if err != nil {
				if errors.Is(err, domain.ErrConflict) {
					uc.logger.Warn("CreateWorkOrder: skipping slot id=%d over %s: %v", slot.ID, item.rng, err)
					skipped = append(skipped, SkippedItem{
						SlotID: slot.ID,
						Range:  item.rng.String(),
						Reason: err.Error(),
					})
					continue
				}
				return err
			}

			sectionKey := slot.SectionKey()
			mediaType := slot.MediaType
			line := &domain.WorkOrderItem{
				WorkOrderID: wo.ID,
				SlotID:      &slot.ID,
				SectionKey:  &sectionKey,
				MediaType:   &mediaType,
				Range:       item.rng,
				Price:       slot.BasePrice,
				BookingID:   &booking.ID,
			}
			if err := uc.workOrderRepo.AddItem(txCtx, line); err != nil {
				return fmt.Errorf("%w: add slot item: %v", ErrInternal, err)
			}
			accepted = append(accepted, toResponseItem(line))
		}

		// 5. A draft with nothing on it is useless; fail so everything rolls back.
		if len(accepted) == 0 {
			return ErrAllItemsConflicted
		}

		resp = &Response{
			ID:          wo.ID,
			ClientID:    wo.ClientID,
			Status:      wo.Status,
			PaymentMode: wo.PaymentMode,
			Items:       accepted,
			Skipped:     skipped,
			CreatedAt:   wo.CreatedAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateWorkOrder: created draft id=%d with %d items (%d skipped)",
		resp.ID, len(resp.Items), len(resp.Skipped))
	return resp, nil
}

func (uc *UseCase) addOnPrice(t domain.AddOnType, rng domain.DateRange) decimal.Decimal {
	days := decimal.NewFromInt(int64(rng.Days()))
	switch t {
	case domain.AddOnEmailCampaign:
		return uc.rates.EmailPerDay.Mul(days).Round(2)
	case domain.AddOnWhatsAppCampaign:
		return uc.rates.WhatsAppPerDay.Mul(days).Round(2)
	}
	return decimal.Zero
}

func reservationParams(clientID, slotID int64, rng domain.DateRange, workOrderID int64) reservations.CreateBookingParams {
	woID := workOrderID
	return reservations.CreateBookingParams{
		ClientID:    clientID,
		SlotID:      slotID,
		Range:       rng,
		TotalAmount: decimal.Zero,
		WorkOrderID: &woID,
	}
}

func toResponseItem(item *domain.WorkOrderItem) ResponseItem {
	var addOn *string
	if item.AddOnType != nil {
		s := string(*item.AddOnType)
		addOn = &s
	}
	return ResponseItem{
		ID:         item.ID,
		SlotID:     item.SlotID,
		AddOnType:  addOn,
		SectionKey: item.SectionKey,
		StartDate:  item.Range.Start.Format(domain.DateFormat),
		EndDate:    item.Range.End.Format(domain.DateFormat),
		Price:      item.Price,
		BookingID:  item.BookingID,
	}
}
