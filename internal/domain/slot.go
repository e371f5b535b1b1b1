package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MediaType identifies the kind of inventory a slot belongs to.
type MediaType string

const (
	MediaWebsite   MediaType = "website"
	MediaMobileApp MediaType = "mobile_app"
	MediaMagazine  MediaType = "magazine"
)

// Valid reports whether the media type is one of the known values.
func (m MediaType) Valid() bool {
	switch m {
	case MediaWebsite, MediaMobileApp, MediaMagazine:
		return true
	}
	return false
}

// SectionKey derives the business grouping used by the one-slot-per-section
// rule: page type for website slots, the media type itself otherwise.
// The key is deterministic and must stay stable for a slot's lifetime.
func SectionKey(mediaType MediaType, pageType string) string {
	if mediaType == MediaWebsite {
		return string(MediaWebsite) + ":" + pageType
	}
	return string(mediaType)
}

// ManualBlock is a manager-set window during which a slot cannot be sold.
type ManualBlock struct {
	Window    DateRange
	Reason    string
	ManagerID int64
	SetAt     time.Time
}

// Slot is one unit of advertising inventory (web page position, app placement
// or magazine page).
type Slot struct {
	ID          int64
	Name        string
	MediaType   MediaType
	PageType    string // page type for website slots, empty otherwise
	Position    string
	WidthPx     *int // nil for magazine slots
	HeightPx    *int
	BasePrice   decimal.Decimal
	Available   bool
	ManualBlock *ManualBlock

	CreatedAt time.Time
	UpdatedAt time.Time
}

// SectionKey returns the slot's section grouping.
func (s *Slot) SectionKey() string {
	return SectionKey(s.MediaType, s.PageType)
}

// IsBlockedFor reports whether the manual block window overlaps the range.
func (s *Slot) IsBlockedFor(r DateRange) bool {
	return s.ManualBlock != nil && s.ManualBlock.Window.Overlaps(r)
}

// SlotFilter narrows ListSlots results.
type SlotFilter struct {
	MediaType *MediaType
	PageType  *string
	Available *bool
}
