package upload_banner

// StoredResponse acknowledges a creative stored before its release order
// exists.
type StoredResponse struct {
	ItemID int64 `json:"itemId"`
}
