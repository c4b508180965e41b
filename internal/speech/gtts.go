package speech

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Compile-time interface check.
var _ Engine = (*GTTS)(nil)

const (
	// GTTSSampleRate is the PCM16 mono rate ffmpeg decodes gTTS audio to.
	GTTSSampleRate = 24000

	// gttsMaxText is the longest text the service accepts in one request.
	gttsMaxText = 5000

	// atempo only accepts factors in [0.5, 2].
	minTempo = 0.5
	maxTempo = 2.0
)

// GTTSConfig configures the online gTTS engine.
type GTTSConfig struct {
	Binary            string        `mapstructure:"binary"`
	FFmpeg            string        `mapstructure:"ffmpeg"`
	Language          string        `mapstructure:"language"`
	Slow              bool          `mapstructure:"slow"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
	Timeout           time.Duration `mapstructure:"timeout"`
}

// GTTS speaks through Google Translate's voice using gtts-cli, decoding the
// MP3 with ffmpeg. Requests are rate limited so the service does not block
// us; cached utterances skip the network entirely.
type GTTS struct {
	binary   string
	ffmpeg   string
	language string
	slow     bool
	timeout  time.Duration
	limiter  *rate.Limiter
	player   Player
	cache    Cache

	run runner
}

// NewGTTS creates a gTTS engine. cache may be nil.
func NewGTTS(cfg GTTSConfig, player Player, cache Cache) (*GTTS, error) {
	if player == nil {
		return nil, errors.New("player cannot be nil")
	}
	binary, err := exec.LookPath(orDefault(cfg.Binary, "gtts-cli"))
	if err != nil {
		return nil, fmt.Errorf("gtts-cli not found, install with pip install gtts: %w", err)
	}
	ffmpeg, err := exec.LookPath(orDefault(cfg.FFmpeg, "ffmpeg"))
	if err != nil {
		return nil, fmt.Errorf("ffmpeg not found: %w", err)
	}
	perMinute := cfg.RequestsPerMinute
	if perMinute <= 0 {
		perMinute = 50
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &GTTS{
		binary:   binary,
		ffmpeg:   ffmpeg,
		language: orDefault(cfg.Language, "en"),
		slow:     cfg.Slow,
		timeout:  timeout,
		limiter:  rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1),
		player:   player,
		cache:    cache,
	}, nil
}

// IsAvailable reports true; construction already found both binaries.
func (g *GTTS) IsAvailable() bool {
	return true
}

// Speak fetches, decodes and plays u in the background.
func (g *GTTS) Speak(u Utterance, done func(error)) error {
	if len(u.Text) > gttsMaxText {
		return fmt.Errorf("text too long for gtts: %d bytes (max %d)", len(u.Text), gttsMaxText)
	}
	g.run.start(func(ctx context.Context) error {
		return synthesizeAndPlay(ctx, "gtts", g.cacheKey(u), g.cache, g.player, u.Voice.Volume,
			func(ctx context.Context) ([]byte, error) { return g.synthesize(ctx, u) })
	}, done)
	return nil
}

// Cancel stops the request, the decoder and playback.
func (g *GTTS) Cancel() {
	g.run.stop()
}

func (g *GTTS) synthesize(ctx context.Context, u Utterance) ([]byte, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait canceled: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	mp3, err := pipe(ctx, g.binary, nil, g.gttsArgs(u.Text)...)
	if err != nil {
		return nil, fmt.Errorf("gtts-cli failed: %w", err)
	}
	pcm, err := pipe(ctx, g.ffmpeg, mp3, ffmpegArgs(u.Voice.Rate)...)
	if err != nil {
		return nil, fmt.Errorf("ffmpeg failed: %w", err)
	}
	return pcm, nil
}

func (g *GTTS) gttsArgs(text string) []string {
	args := []string{"-l", g.language, "-o", "-"}
	if g.slow {
		args = append(args, "--slow")
	}
	return append(args, "--", text)
}

// ffmpegArgs decodes MP3 on stdin to PCM16 mono on stdout, applying the
// speaking rate with the atempo filter.
func ffmpegArgs(speed float64) []string {
	args := []string{
		"-hide_banner", "-loglevel", "error",
		"-i", "pipe:0",
		"-f", "s16le",
		"-ar", fmt.Sprint(GTTSSampleRate),
		"-ac", "1",
	}
	if speed > 0 && speed != 1 {
		speed = min(max(speed, minTempo), maxTempo)
		args = append(args, "-filter:a", fmt.Sprintf("atempo=%.2f", speed))
	}
	return append(args, "pipe:1")
}

func (g *GTTS) cacheKey(u Utterance) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("gtts|%s|%t|%.2f|%s", g.language, g.slow, u.Voice.Rate, u.Text)))
	return hex.EncodeToString(sum[:])
}

// pipe executes name with stdin and returns stdout. Empty output is an error.
func pipe(ctx context.Context, name string, stdin []byte, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	cmd.Stdin = bytes.NewReader(stdin)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %s", err, strings.TrimSpace(stderr.String()))
	}
	if stdout.Len() == 0 {
		return nil, errors.New("no output")
	}
	return stdout.Bytes(), nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
