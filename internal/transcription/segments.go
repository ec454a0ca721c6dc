package transcription

import "time"

const mib = 1 << 20

// SegmentCount is the number of equal parts the audio is split into: the
// larger of the duration-based and the size-based count, each floored, and
// never below one.
func SegmentCount(duration time.Duration, sizeBytes int64, segmentDuration time.Duration, segmentSizeMB int64) int {
	byDuration := 0
	if segmentDuration > 0 {
		byDuration = int(duration / segmentDuration)
	}
	bySize := 0
	if segmentSizeMB > 0 {
		bySize = int(sizeBytes / (segmentSizeMB * mib))
	}
	return max(1, byDuration, bySize)
}

// Bounds returns the start offset and length of segment i of count over a
// stream of length total. The last segment absorbs the rounding remainder.
func Bounds(total time.Duration, count, i int) (time.Duration, time.Duration) {
	part := total / time.Duration(count)
	start := part * time.Duration(i)
	if i == count-1 {
		return start, total - start
	}
	return start, part
}

// Chunks splits text into pieces of at most size runes.
func Chunks(text string, size int) []string {
	runes := []rune(text)
	if size <= 0 || len(runes) == 0 {
		return nil
	}
	out := make([]string, 0, len(runes)/size+1)
	for i := 0; i < len(runes); i += size {
		out = append(out, string(runes[i:min(i+size, len(runes))]))
	}
	return out
}
