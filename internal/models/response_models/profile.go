package response_models

import "encoding/json"

type ProfileResponse struct {
	UserID      string          `json:"user_id"`
	Username    string          `json:"username"`
	AvatarURL   string          `json:"avatar_url,omitempty"`
	Preferences json.RawMessage `json:"preferences"`
	UpdatedAt   string          `json:"updated_at"`
}
