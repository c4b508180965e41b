// Package gcp implements voice.Recognizer on Google Cloud Speech-to-Text
// streaming recognition. Audio comes from a capture command that writes raw
// 16-bit little-endian mono PCM to stdout (arecord by default).
package gcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"github.com/charmbracelet/log"
	"github.com/mitchellh/go-homedir"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/inclove/inclove/internal/a11y"
	"github.com/inclove/inclove/internal/voice"
)

// Compile-time interface check.
var _ voice.Recognizer = (*Recognizer)(nil)

// chunkSize is 100ms of 16kHz 16-bit mono audio.
const chunkSize = 3200

// Config holds the recognizer settings.
type Config struct {
	CredentialsFile string   `mapstructure:"credentials_file"`
	Locale          string   `mapstructure:"locale"`
	SampleRate      int      `mapstructure:"sample_rate"`
	Model           string   `mapstructure:"model"`
	Capture         []string `mapstructure:"capture"`
}

// DefaultConfig returns the default settings.
func DefaultConfig() Config {
	return Config{
		Locale:     "en-US",
		SampleRate: 16000,
		Model:      "command_and_search",
	}
}

// captureCommand returns the capture argv, defaulting to arecord.
func (c Config) captureCommand() []string {
	if len(c.Capture) > 0 {
		return c.Capture
	}
	return []string{"arecord", "-q", "-t", "raw", "-f", "S16_LE", "-c", "1", "-r", fmt.Sprint(c.SampleRate)}
}

// streamingConfig builds the first request of a stream: continuous
// recognition with interim results.
func (c Config) streamingConfig() *speechpb.StreamingRecognizeRequest {
	return &speechpb.StreamingRecognizeRequest{
		StreamingRequest: &speechpb.StreamingRecognizeRequest_StreamingConfig{
			StreamingConfig: &speechpb.StreamingRecognitionConfig{
				Config: &speechpb.RecognitionConfig{
					Encoding:        speechpb.RecognitionConfig_LINEAR16,
					SampleRateHertz: int32(c.SampleRate),
					LanguageCode:    c.Locale,
					Model:           c.Model,
				},
				InterimResults:  true,
				SingleUtterance: false,
			},
		},
	}
}

// Recognizer streams captured audio to Cloud Speech.
type Recognizer struct {
	cfg     Config
	client  *speech.Client
	capture string

	mu     sync.Mutex
	cancel context.CancelFunc
}

// New connects to Cloud Speech. Credentials come from cfg.CredentialsFile
// or the application default credentials.
func New(ctx context.Context, cfg Config) (*Recognizer, error) {
	if cfg.Locale == "" {
		cfg.Locale = DefaultConfig().Locale
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = DefaultConfig().SampleRate
	}

	argv := cfg.captureCommand()
	capture, err := exec.LookPath(argv[0])
	if err != nil {
		return nil, a11y.NewError(a11y.ErrorCodeCapabilityUnavailable,
			fmt.Sprintf("audio capture command %q not found", argv[0]), err)
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		path, err := homedir.Expand(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("unable to expand credentials path: %w", err)
		}
		opts = append(opts, option.WithCredentialsFile(path))
	}
	client, err := speech.NewClient(ctx, opts...)
	if err != nil {
		return nil, a11y.NewError(a11y.ErrorCodeCapabilityUnavailable, "speech client", err)
	}

	return &Recognizer{cfg: cfg, client: client, capture: capture}, nil
}

// IsAvailable reports whether a client and capture command are present.
func (r *Recognizer) IsAvailable() bool {
	return r != nil && r.client != nil && r.capture != ""
}

// Start opens a stream and begins capturing audio. Events are delivered
// to h from a background goroutine.
func (r *Recognizer) Start(ctx context.Context, h voice.Handler) error {
	if !r.IsAvailable() {
		return voice.ErrUnavailable
	}

	ctx, cancel := context.WithCancel(ctx)
	stream, err := r.client.StreamingRecognize(ctx)
	if err != nil {
		cancel()
		return fmt.Errorf("open recognition stream: %w", err)
	}
	if err := stream.Send(r.cfg.streamingConfig()); err != nil {
		cancel()
		return fmt.Errorf("send recognition config: %w", err)
	}

	argv := r.cfg.captureCommand()
	cmd := exec.CommandContext(ctx, r.capture, argv[1:]...)
	audio, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return fmt.Errorf("capture pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		cancel()
		return fmt.Errorf("start audio capture: %w", err)
	}

	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
	}
	r.cancel = cancel
	r.mu.Unlock()

	go r.sendAudio(ctx, stream, audio, cmd)
	go r.receive(ctx, stream, h)
	return nil
}

func (r *Recognizer) sendAudio(ctx context.Context, stream speechpb.Speech_StreamingRecognizeClient, audio io.Reader, cmd *exec.Cmd) {
	defer func() {
		_ = stream.CloseSend()
		_ = cmd.Wait()
	}()

	buf := make([]byte, chunkSize)
	for {
		n, err := audio.Read(buf)
		if n > 0 {
			req := &speechpb.StreamingRecognizeRequest{
				StreamingRequest: &speechpb.StreamingRecognizeRequest_AudioContent{
					AudioContent: append([]byte(nil), buf[:n]...),
				},
			}
			if sendErr := stream.Send(req); sendErr != nil {
				log.Debug("Stopped sending audio", "error", sendErr)
				return
			}
		}
		if err != nil {
			if ctx.Err() == nil && !errors.Is(err, io.EOF) {
				log.Warn("Audio capture failed", "error", err)
			}
			return
		}
	}
}

func (r *Recognizer) receive(ctx context.Context, stream speechpb.Speech_StreamingRecognizeClient, h voice.Handler) {
	for {
		resp, err := stream.Recv()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			if !errors.Is(err, io.EOF) && !endOfStream(err) {
				h.Error(a11y.NewError(a11y.ErrorCodeRecognitionTransient, "recognition stream", err))
			}
			h.End()
			return
		}
		if st := resp.GetError(); st != nil && st.GetCode() != 0 {
			h.Error(a11y.NewError(a11y.ErrorCodeRecognitionTransient, st.GetMessage(), nil))
			continue
		}
		for _, result := range resp.GetResults() {
			alts := result.GetAlternatives()
			if len(alts) == 0 {
				continue
			}
			h.Result(alts[0].GetTranscript(), result.GetIsFinal())
		}
	}
}

// endOfStream reports errors that mean the server closed a healthy stream,
// such as reaching the streaming duration limit.
func endOfStream(err error) bool {
	switch status.Code(err) {
	case codes.OutOfRange, codes.DeadlineExceeded:
		return true
	default:
		return false
	}
}

// Stop cancels the current stream and capture.
func (r *Recognizer) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
}

// Close stops recognition and releases the client.
func (r *Recognizer) Close() error {
	r.Stop()
	if r.client == nil {
		return nil
	}
	return r.client.Close()
}
