package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"travelmind/internal/models/request_models"
	"travelmind/internal/models/response_models"
	"travelmind/internal/services"
	"travelmind/pkg/utils"
)

const (
	// About five minutes of 16 kHz 16-bit mono PCM.
	maxAudioBytes = 10 << 20
	maxWSFrame    = 64 << 10
	wsWriteWait   = 5 * time.Second
)

type VoiceController struct {
	voiceService services.VoiceServiceInterface
	upgrader     *websocket.Upgrader
}

func NewVoiceController(voiceService services.VoiceServiceInterface, origins []string) *VoiceController {
	return &VoiceController{
		voiceService: voiceService,
		upgrader: &websocket.Upgrader{
			ReadBufferSize:  maxWSFrame,
			WriteBufferSize: 4096,
			CheckOrigin:     originChecker(origins),
		},
	}
}

func originChecker(origins []string) func(r *http.Request) bool {
	allowed := map[string]bool{}
	for _, o := range origins {
		allowed[strings.TrimRight(strings.TrimSpace(o), "/")] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || allowed["*"] || allowed[origin]
	}
}

// readAudio buffers a raw PCM body.
func readAudio(c *gin.Context) ([]byte, error) {
	if ct := c.GetHeader("Content-Type"); ct != "" {
		mediaType, _, err := mime.ParseMediaType(ct)
		if err != nil || (!strings.EqualFold(mediaType, "audio/L16") && mediaType != "application/octet-stream") {
			return nil, utils.ErrUnsupportedMedia
		}
	}
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxAudioBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, utils.ErrPayloadTooLarge
		}
		return nil, utils.ErrInvalidInput
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: audio body is empty", utils.ErrInvalidInput)
	}
	return body, nil
}

// Transcribe godoc
// @Summary Transcribe a recorded utterance
// @Tags Voice
// @Accept application/octet-stream
// @Produce json
// @Param audio body string true "16 kHz 16-bit mono PCM (audio/L16;rate=16000)"
// @Success 200 {object} response_models.VoiceParseResult
// @Failure 502 {object} utils.APIResponse
// @Security BearerAuth
// @Router /voice/transcribe [post]
func (v *VoiceController) Transcribe(c *gin.Context) {
	audio, err := readAudio(c)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	text, err := v.voiceService.Transcribe(c.Request.Context(), bytes.NewReader(audio))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, response_models.VoiceParseResult{Transcript: text}, "Audio transcribed successfully")
}

// ParseText godoc
// @Summary Extract trip parameters from a spoken request
// @Tags Voice
// @Accept json
// @Produce json
// @Param request body request_models.ParseVoiceRequest true "Transcript"
// @Success 200 {object} response_models.VoiceParseResult
// @Failure 502 {object} utils.APIResponse
// @Security BearerAuth
// @Router /voice/parse [post]
func (v *VoiceController) ParseText(c *gin.Context) {
	var req request_models.ParseVoiceRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := v.voiceService.ParseVoiceText(c.Request.Context(), req.Text)
	if err != nil {
		if result != nil {
			utils.HandleServiceErrorWithData(c, err, result)
			return
		}
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, result, "Voice request parsed successfully")
}

// Plan godoc
// @Summary Transcribe an utterance and extract trip parameters
// @Tags Voice
// @Accept application/octet-stream
// @Produce json
// @Param audio body string true "16 kHz 16-bit mono PCM (audio/L16;rate=16000)"
// @Success 200 {object} response_models.VoiceParseResult
// @Security BearerAuth
// @Router /voice/plan [post]
func (v *VoiceController) Plan(c *gin.Context) {
	audio, err := readAudio(c)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	result, err := v.voiceService.TranscribeAndParse(c.Request.Context(), bytes.NewReader(audio))
	if err != nil {
		if result != nil {
			utils.HandleServiceErrorWithData(c, err, result)
			return
		}
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, result, "Voice request parsed successfully")
}

// Stream godoc
// @Summary Live transcription over WebSocket
// @Description Send binary PCM frames, then the text message "end" (or {"type":"end"}). The server
// @Description pushes {"type":"partial|final|error","text":"..."} messages.
// @Description Pass the access token as ?token= since browsers cannot set headers.
// @Tags Voice
// @Security BearerAuth
// @Router /voice/stream [get]
func (v *VoiceController) Stream(c *gin.Context) {
	conn, err := v.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.WarnContext(c.Request.Context(), "WebSocket upgrade failed", slog.Any("error", err))
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxWSFrame)

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	var writeMu sync.Mutex
	emit := func(msg response_models.StreamMessage) {
		writeMu.Lock()
		defer writeMu.Unlock()
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		if err := conn.WriteJSON(msg); err != nil {
			slog.DebugContext(ctx, "WebSocket write failed", slog.Any("error", err))
		}
	}

	frames := make(chan []byte, 16)
	go func() {
		defer close(frames)
		for {
			msgType, data, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					slog.InfoContext(ctx, "Browser closed the voice stream", slog.Any("error", err))
				}
				// Losing the browser ends the vendor session as well.
				cancel()
				return
			}
			if msgType == websocket.TextMessage {
				if isEndMessage(data) {
					return
				}
				continue
			}
			select {
			case frames <- data:
			case <-ctx.Done():
				return
			}
		}
	}()

	text, err := v.voiceService.StreamRelay(ctx, frames, emit)
	if err != nil {
		slog.WarnContext(ctx, "Voice stream failed", slog.Any("error", err))
	} else {
		slog.InfoContext(ctx, "Voice stream finished", slog.Int("chars", len(text)))
	}

	writeMu.Lock()
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(wsWriteWait))
	writeMu.Unlock()
}

func isEndMessage(data []byte) bool {
	text := strings.TrimSpace(string(data))
	if text == "end" {
		return true
	}
	var msg struct {
		Type string `json:"type"`
	}
	return json.Unmarshal([]byte(text), &msg) == nil && msg.Type == "end"
}
