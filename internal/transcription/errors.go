package transcription

import "errors"

var (
	ErrUnsupportedMedia     = errors.New("no supported audio or video attachment")
	ErrTooLarge             = errors.New("attachment exceeds the size ceiling")
	ErrTranscriptionTimeout = errors.New("transcription timed out")
	ErrExtraction           = errors.New("audio extraction failed")
	ErrDecode               = errors.New("audio could not be decoded")
)
