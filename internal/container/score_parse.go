package container

import "libreshockwave/internal/binreader"

// parseScore decodes a Score chunk (`VWSC`/`SCVW`) into its frame/channel
// grid (spec §3 "Score"). Deriving sprite spans (FrameInterval) from that
// grid is internal/score's job (spec §4.4); this package only exposes
// DeriveIntervals as a small, container-grounded helper so internal/score
// doesn't need to know the grid's wire shape.
func parseScore(payload []byte, endian binreader.Endian, store *Store) (*ScoreInfo, error) {
	r := binreader.New(payload, endian)
	frameCount, err := r.I32()
	if err != nil {
		return nil, err
	}
	channelCountOverride, err := r.I32()
	if err != nil {
		return nil, err
	}
	entryCount, err := r.I32()
	if err != nil {
		return nil, err
	}

	channelCount := int(channelCountOverride)
	if channelCount == 0 && store != nil && store.Config != nil {
		channelCount = store.Config.ChannelCount
	}

	score := &ScoreInfo{FrameCount: int(frameCount), ChannelCount: channelCount}
	for i := int32(0); i < entryCount; i++ {
		frameIdx, err := r.I32()
		if err != nil {
			return nil, err
		}
		channelIdx, err := r.I32()
		if err != nil {
			return nil, err
		}
		dataLen, err := r.I32()
		if err != nil {
			return nil, err
		}
		data, err := r.Bytes(int(dataLen))
		if err != nil {
			return nil, err
		}
		score.Entries = append(score.Entries, FrameChannelEntry{
			FrameIndex: int(frameIdx), ChannelIndex: int(channelIdx), ChannelData: data,
		})
	}
	return score, nil
}

// DeriveIntervals groups a Score's frame/channel grid into contiguous
// per-channel FrameInterval runs (spec §4.4 "Active sprites at frame F:
// Derived from sprite spans"). Channels 0-5 are reserved (spec §3
// invariants) and are excluded.
func DeriveIntervals(score *ScoreInfo) []FrameInterval {
	type span struct{ start, end int }
	var intervals []FrameInterval

	frames := make(map[int]map[int]bool)
	for _, e := range score.Entries {
		if e.ChannelIndex < 6 {
			continue
		}
		if frames[e.ChannelIndex] == nil {
			frames[e.ChannelIndex] = make(map[int]bool)
		}
		frames[e.ChannelIndex][e.FrameIndex] = true
	}

	for channel, present := range frames {
		var sorted []int
		for f := range present {
			sorted = append(sorted, f)
		}
		sortInts(sorted)

		var cur *span
		for _, f := range sorted {
			if cur != nil && f == cur.end+1 {
				cur.end = f
				continue
			}
			if cur != nil {
				intervals = append(intervals, FrameInterval{ChannelIndex: channel, StartFrame: cur.start, EndFrame: cur.end})
			}
			cur = &span{start: f, end: f}
		}
		if cur != nil {
			intervals = append(intervals, FrameInterval{ChannelIndex: channel, StartFrame: cur.start, EndFrame: cur.end})
		}
	}
	return intervals
}

func sortInts(s []int) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}
