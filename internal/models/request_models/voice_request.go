package request_models

type ParseVoiceRequest struct {
	Text string `json:"text" binding:"required,max=4000"`
}
