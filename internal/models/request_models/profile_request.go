package request_models

import "encoding/json"

type UpsertProfileRequest struct {
	Username    string          `json:"username" binding:"required,min=3,max=50"`
	Preferences json.RawMessage `json:"preferences"`
}

// UpdatePreferencesRequest is merged key by key; a null value removes the key.
type UpdatePreferencesRequest struct {
	Preferences map[string]json.RawMessage `json:"preferences" binding:"required"`
}
