package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
	"travelmind/internal/config"
	"travelmind/internal/observability"
	"travelmind/pkg/utils"
)

const (
	frameFirst    = 0
	frameContinue = 1
	frameLast     = 2

	speechAudioFormat = "audio/L16;rate=16000"
)

// SpeechClientInterface turns 16 kHz mono PCM into text.
type SpeechClientInterface interface {
	Transcribe(ctx context.Context, audio io.Reader) (string, error)
	// Stream relays chunks from frames until the channel is closed. onUpdate
	// receives the whole transcript so far after every vendor result.
	Stream(ctx context.Context, frames <-chan []byte, onUpdate func(text string, final bool)) (string, error)
}

// SpeechClient speaks the iFlytek IAT streaming protocol over WebSocket.
type SpeechClient struct {
	cfg    config.SpeechConfig
	scheme string
	dialer *websocket.Dialer
	now    func() time.Time
}

func NewSpeechClient(cfg config.SpeechConfig) SpeechClientInterface {
	return &SpeechClient{
		cfg:    cfg,
		scheme: "wss",
		dialer: &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
		now:    time.Now,
	}
}

type iatFrame struct {
	Common   *iatCommon   `json:"common,omitempty"`
	Business *iatBusiness `json:"business,omitempty"`
	Data     iatData      `json:"data"`
}

type iatCommon struct {
	AppID string `json:"app_id"`
}

type iatBusiness struct {
	Language string `json:"language"`
	Domain   string `json:"domain"`
	Accent   string `json:"accent"`
	VadEos   int    `json:"vad_eos"`
	Dwa      string `json:"dwa"`
}

type iatData struct {
	Status   int    `json:"status"`
	Format   string `json:"format"`
	Encoding string `json:"encoding"`
	Audio    string `json:"audio"`
}

type iatResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Sid     string `json:"sid"`
	Data    struct {
		Status int       `json:"status"`
		Result iatResult `json:"result"`
	} `json:"data"`
}

type iatResult struct {
	Sn  int    `json:"sn"`
	Ls  bool   `json:"ls"`
	Pgs string `json:"pgs"`
	Rg  []int  `json:"rg"`
	Ws  []struct {
		Cw []struct {
			W string `json:"w"`
		} `json:"cw"`
	} `json:"ws"`
}

func (r iatResult) text() string {
	var b strings.Builder
	for _, w := range r.Ws {
		if len(w.Cw) > 0 {
			b.WriteString(w.Cw[0].W)
		}
	}
	return b.String()
}

// transcript assembles results by sequence number. A "rpl" result replaces
// the earlier results in its rg range.
type transcript struct {
	pieces map[int]string
}

func newTranscript() *transcript {
	return &transcript{pieces: map[int]string{}}
}

func (t *transcript) apply(r iatResult) {
	if r.Pgs == "rpl" && len(r.Rg) == 2 {
		for sn := r.Rg[0]; sn <= r.Rg[1]; sn++ {
			delete(t.pieces, sn)
		}
	}
	t.pieces[r.Sn] = r.text()
}

func (t *transcript) String() string {
	keys := make([]int, 0, len(t.pieces))
	for sn := range t.pieces {
		keys = append(keys, sn)
	}
	sort.Ints(keys)
	var b strings.Builder
	for _, sn := range keys {
		b.WriteString(t.pieces[sn])
	}
	return b.String()
}

// signedURL builds the handshake URL. The signature covers host, date and
// the request line.
func (c *SpeechClient) signedURL(now time.Time) string {
	date := now.UTC().Format(http.TimeFormat)
	origin := fmt.Sprintf("host: %s\ndate: %s\nGET %s HTTP/1.1", c.cfg.Host, date, c.cfg.Path)

	mac := hmac.New(sha256.New, []byte(c.cfg.APISecret))
	mac.Write([]byte(origin))
	signature := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	authOrigin := fmt.Sprintf(`api_key="%s", algorithm="hmac-sha256", headers="host date request-line", signature="%s"`,
		c.cfg.APIKey, signature)

	q := url.Values{}
	q.Set("authorization", base64.StdEncoding.EncodeToString([]byte(authOrigin)))
	q.Set("date", date)
	q.Set("host", c.cfg.Host)
	return c.scheme + "://" + c.cfg.Host + c.cfg.Path + "?" + q.Encode()
}

func (c *SpeechClient) Transcribe(ctx context.Context, audio io.Reader) (string, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	size := c.cfg.FrameSize
	if size <= 0 {
		size = 1280
	}
	frames := make(chan []byte)
	var readErr error
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(frames)
		for {
			buf := make([]byte, size)
			n, err := io.ReadFull(audio, buf)
			if n > 0 {
				select {
				case frames <- buf[:n]:
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
					readErr = err
				}
				return
			}
		}
	}()

	text, err := c.Stream(ctx, frames, nil)
	cancel()
	wg.Wait()
	if readErr != nil {
		return "", fmt.Errorf("%w: read audio: %v", utils.ErrSpeechFailed, readErr)
	}
	return text, err
}

func (c *SpeechClient) Stream(ctx context.Context, frames <-chan []byte, onUpdate func(text string, final bool)) (text string, err error) {
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}
	ctx, finish := observability.StartVendorSpan(ctx, "iflytek", "iat.stream",
		attribute.String("speech.language", c.cfg.Language))
	defer func() { finish(err) }()

	conn, resp, err := c.dialer.DialContext(ctx, c.signedURL(c.now()), nil)
	if err != nil {
		if resp != nil {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			resp.Body.Close()
			return "", fmt.Errorf("%w: handshake status %d: %s", utils.ErrSpeechFailed, resp.StatusCode, strings.TrimSpace(string(body)))
		}
		return "", fmt.Errorf("%w: dial: %v", utils.ErrSpeechFailed, err)
	}
	defer conn.Close()

	sessCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(sessCtx, func() { _ = conn.Close() })
	defer stop()

	var readerDone atomic.Bool
	g, gctx := errgroup.WithContext(sessCtx)
	g.Go(func() error {
		err := c.writeFrames(gctx, conn, frames)
		if err != nil && readerDone.Load() {
			// The vendor ended the utterance first (VAD); nothing left to send.
			return nil
		}
		return err
	})
	g.Go(func() error {
		out, err := c.readResults(conn, onUpdate)
		if err != nil {
			return err
		}
		text = out
		readerDone.Store(true)
		cancel()
		return nil
	})

	if err = g.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = fmt.Errorf("%w: %v", utils.ErrSpeechFailed, ctxErr)
		} else if !errors.Is(err, utils.ErrSpeechFailed) {
			err = fmt.Errorf("%w: %v", utils.ErrSpeechFailed, err)
		}
		slog.ErrorContext(ctx, "Speech session failed", slog.Any("error", err))
		return "", err
	}
	return text, nil
}

func (c *SpeechClient) writeFrames(ctx context.Context, conn *websocket.Conn, frames <-chan []byte) error {
	size := c.cfg.FrameSize
	if size <= 0 {
		size = 1280
	}
	status := frameFirst

	send := func(audio []byte, last bool) error {
		frame := iatFrame{Data: iatData{
			Status:   status,
			Format:   speechAudioFormat,
			Encoding: "raw",
			Audio:    base64.StdEncoding.EncodeToString(audio),
		}}
		if last && status != frameFirst {
			frame.Data.Status = frameLast
		}
		if status == frameFirst {
			frame.Common = &iatCommon{AppID: c.cfg.AppID}
			frame.Business = &iatBusiness{
				Language: c.cfg.Language,
				Domain:   "iat",
				Accent:   c.cfg.Accent,
				VadEos:   5000,
				Dwa:      "wpgs",
			}
		}
		if err := conn.WriteJSON(frame); err != nil {
			return err
		}
		status = frameContinue
		return nil
	}

	pace := func() error {
		if c.cfg.Interval <= 0 {
			return nil
		}
		t := time.NewTimer(c.cfg.Interval)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			return nil
		}
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case chunk, ok := <-frames:
			if !ok {
				if status == frameFirst {
					// Nothing was spoken; the session still has to be opened.
					if err := send(nil, false); err != nil {
						return err
					}
				}
				return send(nil, true)
			}
			for len(chunk) > 0 {
				n := size
				if n > len(chunk) {
					n = len(chunk)
				}
				if err := send(chunk[:n], false); err != nil {
					return err
				}
				chunk = chunk[n:]
				if err := pace(); err != nil {
					return err
				}
			}
		}
	}
}

func (c *SpeechClient) readResults(conn *websocket.Conn, onUpdate func(string, bool)) (string, error) {
	t := newTranscript()
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return "", err
		}
		var resp iatResponse
		if err := json.Unmarshal(msg, &resp); err != nil {
			return "", fmt.Errorf("%w: decode result: %v", utils.ErrSpeechFailed, err)
		}
		if resp.Code != 0 {
			return "", fmt.Errorf("%w: code %d: %s (sid %s)", utils.ErrSpeechFailed, resp.Code, resp.Message, resp.Sid)
		}

		if r := resp.Data.Result; r.Sn > 0 || len(r.Ws) > 0 {
			t.apply(r)
		}
		final := resp.Data.Status == frameLast
		if onUpdate != nil {
			onUpdate(t.String(), final)
		}
		if final {
			return t.String(), nil
		}
	}
}
