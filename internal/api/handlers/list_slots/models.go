package list_slots

import (
	"github.com/admedia/AMS-AdSalesService/internal/domain"
)

// SlotResponse HTTP model of one slot.
type SlotResponse struct {
	ID         int64              `json:"id"`
	Name       string             `json:"name"`
	MediaType  string             `json:"mediaType"`
	PageType   string             `json:"pageType,omitempty"`
	Position   string             `json:"position,omitempty"`
	WidthPx    *int               `json:"widthPx,omitempty"`
	HeightPx   *int               `json:"heightPx,omitempty"`
	BasePrice  string             `json:"basePrice"`
	SectionKey string             `json:"sectionKey"`
	Available  bool               `json:"available"`
	Block      *BlockResponse     `json:"manualBlock,omitempty"`
}

// BlockResponse HTTP model of a manual block window.
type BlockResponse struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Reason    string `json:"reason,omitempty"`
	ManagerID int64  `json:"managerId"`
}

// ListResponse HTTP model of the slot listing.
type ListResponse struct {
	Slots []SlotResponse `json:"slots"`
}

// FromDomain converts a slot to its HTTP model.
func FromDomain(s *domain.Slot) SlotResponse {
	resp := SlotResponse{
		ID:         s.ID,
		Name:       s.Name,
		MediaType:  string(s.MediaType),
		PageType:   s.PageType,
		Position:   s.Position,
		WidthPx:    s.WidthPx,
		HeightPx:   s.HeightPx,
		BasePrice:  s.BasePrice.StringFixed(2),
		SectionKey: s.SectionKey(),
		Available:  s.Available,
	}
	if s.ManualBlock != nil {
		resp.Block = &BlockResponse{
			StartDate: s.ManualBlock.Window.Start.Format(domain.DateFormat),
			EndDate:   s.ManualBlock.Window.End.Format(domain.DateFormat),
			Reason:    s.ManualBlock.Reason,
			ManagerID: s.ManualBlock.ManagerID,
		}
	}
	return resp
}
