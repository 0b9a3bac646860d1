package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"travelmind/internal/config"
	"travelmind/internal/models/response_models"
	"travelmind/pkg/utils"
)

type VoiceServiceInterface interface {
	Transcribe(ctx context.Context, audio io.Reader) (string, error)
	ParseVoiceText(ctx context.Context, text string) (*response_models.VoiceParseResult, error)
	TranscribeAndParse(ctx context.Context, audio io.Reader) (*response_models.VoiceParseResult, error)
	// StreamRelay forwards browser audio to the recognizer and reports
	// progress through emit. It returns the final transcript.
	StreamRelay(ctx context.Context, frames <-chan []byte, emit func(response_models.StreamMessage)) (string, error)
}

type VoiceService struct {
	speech SpeechClientInterface
	llm    utils.LLMClientInterface
	cfg    config.LLMConfig
	now    func() time.Time
}

// NewVoiceService accepts a nil speech client when recognition is not
// configured; text parsing still works.
func NewVoiceService(speech SpeechClientInterface, llm utils.LLMClientInterface, cfg config.LLMConfig) VoiceServiceInterface {
	return &VoiceService{
		speech: speech,
		llm:    llm,
		cfg:    cfg,
		now:    time.Now,
	}
}

func (s *VoiceService) Transcribe(ctx context.Context, audio io.Reader) (string, error) {
	if s.speech == nil {
		return "", fmt.Errorf("%w: speech recognition is not configured", utils.ErrSpeechFailed)
	}
	text, err := s.speech.Transcribe(ctx, audio)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func (s *VoiceService) StreamRelay(ctx context.Context, frames <-chan []byte, emit func(response_models.StreamMessage)) (string, error) {
	if s.speech == nil {
		err := fmt.Errorf("%w: speech recognition is not configured", utils.ErrSpeechFailed)
		emit(response_models.StreamMessage{Type: "error", Text: err.Error()})
		return "", err
	}

	text, err := s.speech.Stream(ctx, frames, func(text string, final bool) {
		if final {
			return
		}
		emit(response_models.StreamMessage{Type: "partial", Text: text})
	})
	if err != nil {
		emit(response_models.StreamMessage{Type: "error", Text: "speech recognition failed"})
		return "", err
	}
	text = strings.TrimSpace(text)
	emit(response_models.StreamMessage{Type: "final", Text: text})
	return text, nil
}

func (s *VoiceService) TranscribeAndParse(ctx context.Context, audio io.Reader) (*response_models.VoiceParseResult, error) {
	transcript, err := s.Transcribe(ctx, audio)
	if err != nil {
		return nil, err
	}
	if transcript == "" {
		return nil, fmt.Errorf("%w: no speech recognized", utils.ErrInvalidInput)
	}
	result, err := s.ParseVoiceText(ctx, transcript)
	if result != nil {
		result.Transcript = transcript
	}
	return result, err
}

// ParseVoiceText asks the LLM to pull trip parameters out of free speech.
// On an unreadable answer the result still carries the raw text.
func (s *VoiceService) ParseVoiceText(ctx context.Context, text string) (*response_models.VoiceParseResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: text is required", utils.ErrInvalidInput)
	}

	today := utils.TruncateDate(s.now())
	raw, err := callLLM(ctx, s.llm, s.cfg.Timeout, "voice.parse", utils.CompletionRequest{
		System:      "You extract structured travel parameters from a traveler's spoken request. Answer with JSON only.",
		Prompt:      buildVoiceParsePrompt(text, today),
		JSON:        true,
		Temperature: 0.1,
		MaxTokens:   512,
	})
	if err != nil {
		return nil, err
	}

	result := &response_models.VoiceParseResult{Transcript: text, RawText: raw}
	params, err := parseVoiceParams(raw)
	if err != nil {
		slog.WarnContext(ctx, "Voice parse returned unusable JSON", slog.Any("error", err))
		return result, err
	}
	fillVoiceDates(params)
	result.Params = params
	return result, nil
}

func buildVoiceParsePrompt(text string, today time.Time) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Today is %s (%s).\n", utils.FormatDate(today), today.Weekday()))
	b.WriteString("Resolve relative dates such as \"next Friday\" or \"during May Day\" against today.\n")
	b.WriteString("Leave out any field the traveler did not mention.\n\n")
	b.WriteString(fmt.Sprintf("Traveler said: %q\n\n", text))
	b.WriteString(`Return JSON in this EXACT format:
{
  "destination": "",
  "origin": "",
  "start_date": "YYYY-MM-DD",
  "end_date": "YYYY-MM-DD",
  "days": 0,
  "budget": 0,
  "currency": "CNY",
  "travelers": 0,
  "adults": 0,
  "children": 0,
  "preferences": [""],
  "notes": ""
}`)
	return b.String()
}

func parseVoiceParams(raw string) (*response_models.VoiceTripParams, error) {
	candidates := utils.JSONCandidates(raw)
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: no json found in response", utils.ErrItineraryMalformed)
	}
	var err error
	for _, text := range candidates {
		var params response_models.VoiceTripParams
		if err = json.Unmarshal([]byte(text), &params); err == nil {
			return &params, nil
		}
	}
	return nil, fmt.Errorf("%w: %v", utils.ErrItineraryMalformed, err)
}

// fillVoiceDates drops unparseable dates and derives whichever of start,
// end and days is missing from the other two.
func fillVoiceDates(p *response_models.VoiceTripParams) {
	p.Destination = strings.TrimSpace(p.Destination)
	p.Currency = strings.ToUpper(strings.TrimSpace(p.Currency))

	start, err := utils.ParseDate(p.StartDate)
	hasStart := err == nil
	if !hasStart {
		p.StartDate = ""
	}
	end, err := utils.ParseDate(p.EndDate)
	hasEnd := err == nil && (!hasStart || !end.Before(start))
	if !hasEnd {
		p.EndDate = ""
	}
	if p.Days < 0 {
		p.Days = 0
	}

	switch {
	case hasStart && hasEnd:
		p.Days = utils.TripDays(start, end)
	case hasStart && p.Days > 0:
		p.EndDate = utils.FormatDate(start.AddDate(0, 0, p.Days-1))
	case hasEnd && p.Days > 0:
		p.StartDate = utils.FormatDate(end.AddDate(0, 0, -(p.Days - 1)))
	}

	if p.Travelers == 0 && p.Adults+p.Children > 0 {
		p.Travelers = p.Adults + p.Children
	}
	p.Preferences = cleanTags(p.Preferences)
}
