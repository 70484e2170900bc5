package score

import "libreshockwave/internal/container"

// SpriteSpan is an active sprite's lifetime (spec §3 "Score", §4.4
// "Active sprites at frame F"): the channel it occupies, the inclusive
// frame range, and every behaviour attached to it.
type SpriteSpan struct {
	Channel    int
	StartFrame int
	EndFrame   int
	Behaviours []BehaviorRef
}

// Contains reports whether frame f falls within the span.
func (s SpriteSpan) Contains(f int) bool {
	return f >= s.StartFrame && f <= s.EndFrame
}

// BuildSpans derives SpriteSpans from a parsed Score's FrameInterval
// list (container.DeriveIntervals), resolving each interval's
// representative ChannelData into the behaviours attached for its whole
// run (spec §4.4). A span with undecodable channel data simply carries
// no behaviours rather than failing the whole build, matching spec §7's
// "a single malformed [...] cannot halt the movie".
func BuildSpans(s *container.ScoreInfo) []SpriteSpan {
	intervals := s.Intervals
	if intervals == nil {
		intervals = container.DeriveIntervals(s)
	}

	byFrameChannel := make(map[[2]int][]byte, len(s.Entries))
	for _, e := range s.Entries {
		byFrameChannel[[2]int{e.FrameIndex, e.ChannelIndex}] = e.ChannelData
	}

	spans := make([]SpriteSpan, 0, len(intervals))
	for _, iv := range intervals {
		span := SpriteSpan{Channel: iv.ChannelIndex, StartFrame: iv.StartFrame, EndFrame: iv.EndFrame}
		if data, ok := byFrameChannel[[2]int{iv.StartFrame, iv.ChannelIndex}]; ok {
			if ref, ok := decodeChannelData(data); ok {
				span.Behaviours = append(span.Behaviours, ref)
			}
		}
		spans = append(spans, span)
	}
	return spans
}
