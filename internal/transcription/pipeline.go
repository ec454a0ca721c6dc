package transcription

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reactbot/internal/models"
	"reactbot/internal/platform"
	"reactbot/internal/providers"
	"reactbot/internal/structures"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	audioExtensions = []string{".mp3", ".m4a", ".ogg", ".webm", ".wav"}
	videoExtensions = []string{".mp4", ".mov", ".mkv", ".avi"}
)

const separator = "------------------------------"

// Pipeline turns one audio or video attachment into a transcript posted
// back to the channel.
type Pipeline struct {
	conf      *structures.Config
	fetcher   platform.AttachmentFetcher
	responder platform.Responder
	media     MediaToolkit
	speech    SpeechClientInterface
	logger    providers.Logger
	metrics   providers.MetricsProviderInterface
	now       func() time.Time
	sleep     func(ctx context.Context, d time.Duration) error
	observe   func(j *job)
}

func NewPipeline(
	conf *structures.Config,
	fetcher platform.AttachmentFetcher,
	responder platform.Responder,
	media MediaToolkit,
	speech SpeechClientInterface,
	logger providers.Logger,
	metrics providers.MetricsProviderInterface,
) *Pipeline {
	return &Pipeline{
		conf:      conf,
		fetcher:   fetcher,
		responder: responder,
		media:     media,
		speech:    speech,
		logger:    logger,
		metrics:   metrics,
		now:       time.Now,
		sleep:     sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// pick returns the first attachment with a known media extension.
func pick(attachments []models.Attachment) (models.Attachment, bool, bool) {
	for _, a := range attachments {
		if slices.Contains(audioExtensions, a.Ext()) {
			return a, false, true
		}
		if slices.Contains(videoExtensions, a.Ext()) {
			return a, true, true
		}
	}
	return models.Attachment{}, false, false
}

func (p *Pipeline) say(ctx context.Context, channelID, text string) {
	if err := p.responder.SendText(ctx, channelID, text); err != nil {
		p.logger.Warnf(providers.TypeTranscribe, "Unable to post to %s: %s", channelID, err)
	}
}

func (p *Pipeline) Transcribe(ctx context.Context, channelID string, msg *models.Message) error {
	j := newJob(uuid.NewString())
	defer func() {
		if !j.state.Terminal() {
			j.abort()
		}
		p.logger.Debugf(providers.TypeTranscribe, "Job %s finished as %s", j.id, j.state)
		if p.observe != nil {
			p.observe(j)
		}
	}()

	attachment, video, ok := pick(msg.Attachments)
	if !ok {
		p.say(ctx, channelID, "⚠️ No audio file found. Supported formats: "+strings.Join(supportedNames(), ", "))
		return ErrUnsupportedMedia
	}

	ceiling := p.conf.Transcription.MaxAudioMB
	if video {
		ceiling = p.conf.Transcription.MaxVideoMB
	}
	if attachment.Size > ceiling*mib {
		p.say(ctx, channelID, fmt.Sprintf("❌ The file is larger than %d MB.", ceiling))
		return fmt.Errorf("%s is %d bytes: %w", attachment.Filename, attachment.Size, ErrTooLarge)
	}

	p.say(ctx, channelID, "🎤 Starting the transcription, hang on a moment!")

	workspace, err := os.MkdirTemp(p.conf.Transcription.TempDir, "transcribe-"+j.id+"-")
	if err != nil {
		p.say(ctx, channelID, "❌ An error occurred while transcribing.")
		return fmt.Errorf("create workspace: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(workspace); err != nil {
			p.logger.Warnf(providers.TypeTranscribe, "Unable to remove workspace %s: %s", workspace, err)
		}
	}()

	transcript, duration, err := p.run(ctx, j, channelID, workspace, attachment, video)
	if err != nil {
		return err
	}
	return p.deliver(ctx, j, channelID, workspace, attachment, transcript, duration)
}

func (p *Pipeline) run(ctx context.Context, j *job, channelID, workspace string, attachment models.Attachment, video bool) (string, time.Duration, error) {
	source := filepath.Join(workspace, "source"+attachment.Ext())
	if _, err := p.fetcher.Download(ctx, attachment.URL, source); err != nil {
		p.say(ctx, channelID, "❌ Failed to download the file.")
		return "", 0, fmt.Errorf("download %s: %w", attachment.Filename, err)
	}
	if err := j.advance(StateDownloaded); err != nil {
		return "", 0, err
	}
	p.logger.Infof(providers.TypeTranscribe, "Job %s downloaded %s (%d bytes)", j.id, attachment.Filename, attachment.Size)

	audio := source
	if video {
		audio = filepath.Join(workspace, "audio.mp3")
		if err := p.media.ExtractAudio(ctx, source, audio); err != nil {
			p.say(ctx, channelID, "❌ Failed to extract the audio from the video.")
			return "", 0, fmt.Errorf("%w: %w", ErrExtraction, err)
		}
		if err := j.advance(StateAudioExtracted); err != nil {
			return "", 0, err
		}
	}

	duration, err := p.media.Duration(ctx, audio)
	if err != nil {
		p.say(ctx, channelID, "❌ Failed to read the audio file. Please check the format.")
		return "", 0, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	info, err := os.Stat(audio)
	if err != nil {
		p.say(ctx, channelID, "❌ Failed to read the audio file. Please check the format.")
		return "", 0, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	tc := p.conf.Transcription
	count := SegmentCount(duration, info.Size(), tc.SegmentDuration, tc.SegmentSizeMB)
	p.logger.Infof(providers.TypeTranscribe, "Job %s: %.2fs of audio in %d segment(s)", j.id, duration.Seconds(), count)

	parts := []string{audio}
	if count > 1 {
		if parts, err = p.media.Split(ctx, audio, workspace, count, duration); err != nil {
			p.say(ctx, channelID, "❌ Failed to split the audio file.")
			return "", 0, fmt.Errorf("%w: %w", ErrDecode, err)
		}
	}
	if err = j.advance(StateSegmented); err != nil {
		return "", 0, err
	}

	j.total = len(parts)
	var sb strings.Builder
	for i, part := range parts {
		j.segment = i + 1
		if err = j.advance(StateTranscribing); err != nil {
			return "", 0, err
		}
		p.logger.Debugf(providers.TypeTranscribe, "Job %s %s", j.id, j.progress())

		text, err := p.speech.Transcribe(ctx, part)
		if err != nil {
			if errors.Is(err, ErrTranscriptionTimeout) {
				p.say(ctx, channelID, "❌ The transcription timed out. Please try a shorter file.")
			} else {
				p.say(ctx, channelID, "❌ An error occurred while transcribing.")
			}
			return "", 0, fmt.Errorf("segment %d/%d: %w", i+1, len(parts), err)
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	p.metrics.AddTranscriptionSegments(len(parts))

	if err = j.advance(StateConcatenated); err != nil {
		return "", 0, err
	}
	return sb.String(), duration, nil
}

// Artifact is the transcript file body: a short header followed by the text.
func Artifact(filename string, duration time.Duration, at time.Time, transcript string) string {
	return fmt.Sprintf("Audio file: %s\nDuration: %.2f seconds\nProcessed at: %s\n%s\n\n%s",
		filename, duration.Seconds(), at.Format(time.DateTime), strings.Repeat("-", 50), transcript)
}

// ArtifactName is <basename>_transcript.txt.
func ArtifactName(filename string) string {
	return strings.TrimSuffix(filename, filepath.Ext(filename)) + "_transcript.txt"
}

func (p *Pipeline) deliver(ctx context.Context, j *job, channelID, workspace string, attachment models.Attachment, transcript string, duration time.Duration) error {
	body := Artifact(attachment.Filename, duration, p.now(), transcript)
	name := ArtifactName(attachment.Filename)
	if err := os.WriteFile(filepath.Join(workspace, name), []byte(body), 0644); err != nil {
		p.logger.Warnf(providers.TypeTranscribe, "Unable to write transcript artifact: %s", err)
	}

	p.say(ctx, channelID, "🎉 The transcription is finished!")
	p.say(ctx, channelID, separator)

	if strings.TrimSpace(transcript) == "" {
		p.say(ctx, channelID, "⚠️ The transcription came back empty.")
	} else {
		for _, chunk := range Chunks(transcript, p.conf.Transcription.ChunkSize) {
			if err := p.responder.SendText(ctx, channelID, chunk); err != nil {
				return fmt.Errorf("deliver transcript: %w", err)
			}
			if err := p.sleep(ctx, p.conf.Transcription.ChunkDelay); err != nil {
				return err
			}
		}
	}

	p.say(ctx, channelID, separator)
	if err := p.responder.SendFile(ctx, channelID, "📄 The transcript is also available as a text file!", models.File{Name: name, Data: []byte(body)}); err != nil {
		return fmt.Errorf("deliver transcript file: %w", err)
	}
	p.logger.Infof(providers.TypeTranscribe, "Job %s delivered %d characters", j.id, len([]rune(transcript)))
	return j.advance(StateDelivered)
}

func supportedNames() []string {
	var out []string
	for _, ext := range append(slices.Clone(audioExtensions), videoExtensions...) {
		out = append(out, strings.TrimPrefix(ext, "."))
	}
	return out
}
