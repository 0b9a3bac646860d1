package response_models

// VoiceTripParams are the trip parameters the LLM extracted from a spoken
// request. Every field is optional.
type VoiceTripParams struct {
	Destination string   `json:"destination,omitempty"`
	Origin      string   `json:"origin,omitempty"`
	StartDate   string   `json:"start_date,omitempty"`
	EndDate     string   `json:"end_date,omitempty"`
	Days        int      `json:"days,omitempty"`
	Budget      float64  `json:"budget,omitempty"`
	Currency    string   `json:"currency,omitempty"`
	Travelers   int      `json:"travelers,omitempty"`
	Adults      int      `json:"adults,omitempty"`
	Children    int      `json:"children,omitempty"`
	Preferences []string `json:"preferences,omitempty"`
	Notes       string   `json:"notes,omitempty"`
}

type VoiceParseResult struct {
	Transcript string           `json:"transcript,omitempty"`
	Params     *VoiceTripParams `json:"params,omitempty"`
	RawText    string           `json:"raw_text,omitempty"`
}

// StreamMessage is pushed to the browser during live transcription.
type StreamMessage struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}
