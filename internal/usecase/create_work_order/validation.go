package create_work_order

import (
	"fmt"

	"github.com/admedia/AMS-AdSalesService/internal/domain"
)

// parsedItem is one request line with its range parsed and add-on typed.
type parsedItem struct {
	slotID *int64
	addOn  *domain.AddOnType
	rng    domain.DateRange
}

// validateRequest checks the request shape and parses every line's range.
func validateRequest(req *Request) ([]parsedItem, error) {
	if req.ClientID <= 0 {
		return nil, fmt.Errorf("%w: clientID must be positive", domain.ErrValidation)
	}

	mode := domain.PaymentMode(req.PaymentMode)
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: unknown payment mode %q", domain.ErrValidation, req.PaymentMode)
	}

	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: at least one item is required", domain.ErrValidation)
	}

	parsed := make([]parsedItem, 0, len(req.Items))
	for i, item := range req.Items {
		if (item.SlotID == nil) == (item.AddOnType == nil) {
			return nil, fmt.Errorf("%w: item %d must set exactly one of slotID and addOnType", domain.ErrValidation, i)
		}
		if item.SlotID != nil && *item.SlotID <= 0 {
			return nil, fmt.Errorf("%w: item %d slotID must be positive", domain.ErrValidation, i)
		}

		var addOn *domain.AddOnType
		if item.AddOnType != nil {
			t := domain.AddOnType(*item.AddOnType)
			if !t.Valid() {
				return nil, fmt.Errorf("%w: item %d has unknown add-on type %q", domain.ErrValidation, i, *item.AddOnType)
			}
			addOn = &t
		}

		rng, err := domain.NewDateRange(item.StartDate, item.EndDate)
		if err != nil {
			return nil, fmt.Errorf("%w: item %d: %v", domain.ErrValidation, i, err)
		}

		parsed = append(parsed, parsedItem{slotID: item.SlotID, addOn: addOn, rng: rng})
	}

	return parsed, nil
}

// validateNoDuplicateSections rejects requests carrying two slot lines for
// the same section. One request may hold at most one line per section key;
// later conflicts between lines are a storage-level concern.
func validateNoDuplicateSections(sectionKeys []string) error {
	seen := make(map[string]bool, len(sectionKeys))
	for _, key := range sectionKeys {
		if seen[key] {
			return fmt.Errorf("%w: duplicate section %s in request", domain.ErrValidation, key)
		}
		seen[key] = true
	}
	return nil
}
