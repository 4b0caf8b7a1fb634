package dto

// UpdateLeadRequest carries a partial lead mutation. Pointer fields
// distinguish "not provided" from an explicit value: notes set to "" clears
// the stored notes, while an absent notes field leaves them untouched.
type UpdateLeadRequest struct {
	State *string `json:"state"`
	Notes *string `json:"notes"`
}
