package transcription

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"reactbot/internal/providers"
	"reactbot/internal/structures"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// MediaToolkit is the audio processing the pipeline needs.
type MediaToolkit interface {
	Duration(ctx context.Context, path string) (time.Duration, error)
	ExtractAudio(ctx context.Context, src, dst string) error
	Split(ctx context.Context, src, dir string, count int, total time.Duration) ([]string, error)
}

type FFmpeg struct {
	ffmpeg  string
	ffprobe string
	logger  providers.Logger
}

func NewFFmpeg(conf *structures.Config, logger providers.Logger) MediaToolkit {
	ffmpeg, ffprobe := conf.Transcription.FFmpegPath, conf.Transcription.FFprobePath
	if ffmpeg == "" {
		ffmpeg = "ffmpeg"
	}
	if ffprobe == "" {
		ffprobe = "ffprobe"
	}
	return &FFmpeg{ffmpeg: ffmpeg, ffprobe: ffprobe, logger: logger}
}

func (f *FFmpeg) run(ctx context.Context, bin string, args ...string) (string, error) {
	f.logger.Debugf(providers.TypeTranscribe, "Executing %s %s", bin, strings.Join(args, " "))
	out, err := exec.CommandContext(ctx, bin, args...).CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("%s failed: %w: %s", filepath.Base(bin), err, strings.TrimSpace(string(out)))
	}
	return string(out), nil
}

func (f *FFmpeg) Duration(ctx context.Context, path string) (time.Duration, error) {
	out, err := f.run(ctx, f.ffprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	if err != nil {
		return 0, err
	}
	seconds, err := cast.ToFloat64E(strings.TrimSpace(out))
	if err != nil || seconds <= 0 {
		return 0, fmt.Errorf("unexpected duration %q", strings.TrimSpace(out))
	}
	return time.Duration(seconds * float64(time.Second)), nil
}

// ExtractAudio drops the video stream and re-encodes the audio as MP3.
func (f *FFmpeg) ExtractAudio(ctx context.Context, src, dst string) error {
	_, err := f.run(ctx, f.ffmpeg, "-y", "-loglevel", "error", "-i", src, "-vn", "-acodec", "libmp3lame", "-q:a", "4", dst)
	return err
}

// Split cuts src into count contiguous parts of equal duration.
func (f *FFmpeg) Split(ctx context.Context, src, dir string, count int, total time.Duration) ([]string, error) {
	parts := make([]string, 0, count)
	for i := 0; i < count; i++ {
		start, length := Bounds(total, count, i)
		dst := filepath.Join(dir, fmt.Sprintf("part_%d.mp3", i))
		_, err := f.run(ctx, f.ffmpeg,
			"-y", "-loglevel", "error",
			"-ss", seconds(start),
			"-t", seconds(length),
			"-i", src,
			"-vn", "-acodec", "libmp3lame", "-q:a", "4",
			dst,
		)
		if err != nil {
			return nil, fmt.Errorf("segment %d/%d: %w", i+1, count, err)
		}
		parts = append(parts, dst)
	}
	return parts, nil
}

func seconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 3, 64)
}
