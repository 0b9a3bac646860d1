package voice_fx

import (
	"log/slog"

	"go.uber.org/fx"
	"travelmind/internal/api/controllers"
	"travelmind/internal/config"
	"travelmind/internal/services"
	"travelmind/pkg/utils"
)

var Module = fx.Provide(
	provideSpeechClient, provideVoiceService, provideVoiceController,
)

// provideSpeechClient returns nil when no recognizer credentials are set; the
// voice endpoints then answer 502 while text parsing keeps working.
func provideSpeechClient(cfg config.Config) services.SpeechClientInterface {
	if !cfg.SpeechEnabled() {
		slog.Warn("Speech recognition disabled: speech.app_id, speech.api_key or speech.api_secret missing")
		return nil
	}
	return services.NewSpeechClient(cfg.Speech)
}

func provideVoiceService(speech services.SpeechClientInterface, llm utils.LLMClientInterface, cfg config.LLMConfig) services.VoiceServiceInterface {
	return services.NewVoiceService(speech, llm, cfg)
}

func provideVoiceController(voiceService services.VoiceServiceInterface, cfg config.Config) *controllers.VoiceController {
	return controllers.NewVoiceController(voiceService, cfg.App.CORSOrigins)
}
