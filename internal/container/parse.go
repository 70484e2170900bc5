package container

import (
	"fmt"

	"libreshockwave/internal/binreader"
)

func isConfigTag(tag string) bool { return tag == "DRCF" || tag == "VWCF" }

// parseChunkPayload dispatches a raw chunk's bytes to the parser for its
// FourCC tag (spec §4.1 "Payload parsing"). An unrecognised tag is not an
// error: it becomes a RawInfo so extractor tools can still see the bytes.
func parseChunkPayload(tag string, payload []byte, endian binreader.Endian, store *Store) (any, error) {
	switch tag {
	case "DRCF", "VWCF":
		return parseConfig(payload, endian)
	case "KEYp":
		return parseKeyTable(payload, endian)
	case "MCsL":
		return parseCastList(payload, endian)
	case "CASp":
		return parseCast(payload, endian)
	case "CASt":
		return parseCastMember(payload, endian)
	case "Lctx", "LctX":
		return parseScriptContext(payload, endian, tag == "LctX")
	case "Lnam":
		return parseScriptNames(payload, endian)
	case "Lscr":
		return parseScript(payload, endian, store)
	case "VWSC", "SCVW":
		return parseScore(payload, endian, store)
	case "VWLB":
		return parseFrameLabels(payload, endian)
	case "CLUT":
		return parsePalette(payload, endian)
	case "BITD":
		return parseBitmap(payload, endian, store)
	case "STXT":
		return parseText(payload, endian)
	case "snd ":
		return parseSound(payload)
	case "ediM":
		return parseMedia(payload)
	default:
		return &RawInfo{Payload: payload}, nil
	}
}

func parseConfig(payload []byte, endian binreader.Endian) (*ConfigInfo, error) {
	r := binreader.New(payload, endian)
	// Layout mirrors the real Config chunk closely enough for the fields
	// the core needs (spec §3/§6): a u16 length prefix, then stage
	// geometry, tempo and version fields at fixed offsets.
	if r.Len() < 20 {
		return nil, fmt.Errorf("config chunk too short: %d bytes", r.Len())
	}
	if _, err := r.U16(); err != nil { // chunk's own declared length
		return nil, err
	}
	if _, err := r.U16(); err != nil { // file version marker, unused here
		return nil, err
	}
	stageTop, err := r.I16()
	if err != nil {
		return nil, err
	}
	stageLeft, err := r.I16()
	if err != nil {
		return nil, err
	}
	stageBottom, err := r.I16()
	if err != nil {
		return nil, err
	}
	stageRight, err := r.I16()
	if err != nil {
		return nil, err
	}
	if _, err := r.Bytes(2); err != nil { // reserved
		return nil, err
	}
	tempo, err := r.I16()
	if err != nil {
		return nil, err
	}
	if _, err := r.Bytes(2); err != nil { // platform field, unused here
		return nil, err
	}
	directorVersion, err := r.I16()
	if err != nil {
		return nil, err
	}

	cfg := &ConfigInfo{
		DirectorVersion: int(directorVersion),
		StageWidth:      int(stageRight - stageLeft),
		StageHeight:     int(stageBottom - stageTop),
		Tempo:           int(tempo),
		MinMember:       1,
	}
	cfg.ChannelCount = channelCountForVersion(cfg.DirectorVersion)
	return cfg, nil
}

func parseKeyTable(payload []byte, endian binreader.Endian) (*KeyTableInfo, error) {
	r := binreader.New(payload, endian)
	if _, err := r.U16(); err != nil { // entry struct size, unused: fixed layout below
		return nil, err
	}
	if _, err := r.U16(); err != nil { // entry capacity
		return nil, err
	}
	count, err := r.I32()
	if err != nil {
		return nil, err
	}
	info := &KeyTableInfo{}
	for i := int32(0); i < count; i++ {
		sectionID, err := r.I32()
		if err != nil {
			return nil, err
		}
		ownerID, err := r.I32()
		if err != nil {
			return nil, err
		}
		fourcc, err := r.FourCC()
		if err != nil {
			return nil, err
		}
		info.Entries = append(info.Entries, KeyTableEntry{
			OwnerID: int(ownerID), SectionID: int(sectionID), FourCC: fourcc,
		})
	}
	return info, nil
}

func parseCastList(payload []byte, endian binreader.Endian) (*CastListInfo, error) {
	r := binreader.New(payload, endian)
	count, err := r.I32()
	if err != nil {
		return nil, err
	}
	info := &CastListInfo{}
	for i := int32(0); i < count; i++ {
		castChunkID, err := r.I32()
		if err != nil {
			return nil, err
		}
		minMember, err := r.I32()
		if err != nil {
			return nil, err
		}
		name, err := r.PascalString()
		if err != nil {
			return nil, err
		}
		info.Libraries = append(info.Libraries, CastLibInfo{
			Name: name, MinMember: int(minMember), CastChunkID: int(castChunkID),
		})
	}
	return info, nil
}

func parseCast(payload []byte, endian binreader.Endian) (*CastInfo, error) {
	r := binreader.New(payload, endian)
	count := r.Remaining() / 4
	info := &CastInfo{MemberIDs: make([]int, 0, count)}
	for r.Remaining() >= 4 {
		id, err := r.I32()
		if err != nil {
			return nil, err
		}
		info.MemberIDs = append(info.MemberIDs, int(id))
	}
	return info, nil
}

var castMemberTypes = map[int]string{
	1: "bitmap", 2: "filmLoop", 3: "text", 4: "palette", 5: "picture",
	6: "sound", 7: "button", 8: "shape", 9: "movie", 11: "script", 12: "richText",
}

func parseCastMember(payload []byte, endian binreader.Endian) (*CastMemberInfo, error) {
	r := binreader.New(payload, endian)
	typeCode, err := r.I32()
	if err != nil {
		return nil, err
	}
	infoLen, err := r.I32()
	if err != nil {
		return nil, err
	}
	specificLen, err := r.I32()
	if err != nil {
		return nil, err
	}
	m := &CastMemberInfo{Type: castMemberTypes[int(typeCode)]}
	if m.Type == "" {
		m.Type = "unknown"
	}

	infoBytes, err := r.Bytes(int(infoLen))
	if err != nil {
		return nil, err
	}
	ir := binreader.New(infoBytes, endian)
	if name, err := ir.PascalString(); err == nil {
		m.Name = name
	}

	specificBytes, err := r.Bytes(int(specificLen))
	if err != nil {
		return nil, err
	}
	m.Payload = specificBytes

	if m.Type == "script" && len(specificBytes) >= 4 {
		sr := binreader.New(specificBytes, endian)
		if scriptID, err := sr.I32(); err == nil {
			m.ScriptID = int(scriptID)
		}
	}
	return m, nil
}

func parseScriptContext(payload []byte, endian binreader.Endian, lctX bool) (*ScriptContextInfo, error) {
	r := binreader.New(payload, endian)
	count, err := r.I32()
	if err != nil {
		return nil, err
	}
	info := &ScriptContextInfo{LctXTagged: lctX}
	for i := int32(0); i < count; i++ {
		scriptID, err := r.I32()
		if err != nil {
			return nil, err
		}
		chunkID, err := r.I32()
		if err != nil {
			return nil, err
		}
		scriptType, err := r.I32()
		if err != nil {
			return nil, err
		}
		info.Entries = append(info.Entries, ScriptContextEntry{
			ScriptID: int(scriptID), ChunkID: int(chunkID),
			ScriptType: ScriptType(scriptType).String(),
		})
	}
	return info, nil
}

func parseScriptNames(payload []byte, endian binreader.Endian) (*ScriptNamesInfo, error) {
	r := binreader.New(payload, endian)
	count, err := r.I32()
	if err != nil {
		return nil, err
	}
	info := &ScriptNamesInfo{}
	for i := int32(0); i < count; i++ {
		name, err := r.PascalString()
		if err != nil {
			return nil, err
		}
		info.Names = append(info.Names, name)
	}
	return info, nil
}

func parseFrameLabels(payload []byte, endian binreader.Endian) (*FrameLabelsInfo, error) {
	r := binreader.New(payload, endian)
	count, err := r.I16()
	if err != nil {
		return nil, err
	}
	info := &FrameLabelsInfo{}
	for i := int16(0); i < count; i++ {
		frame, err := r.I32()
		if err != nil {
			return nil, err
		}
		name, err := r.PascalString16()
		if err != nil {
			return nil, err
		}
		info.Labels = append(info.Labels, FrameLabelInfo{Name: name, Frame: int(frame)})
	}
	return info, nil
}

func parsePalette(payload []byte, endian binreader.Endian) (*PaletteInfo, error) {
	info := &PaletteInfo{}
	for off := 0; off+3 <= len(payload); off += 3 {
		info.Colors = append(info.Colors, [3]byte{payload[off], payload[off+1], payload[off+2]})
	}
	return info, nil
}

func parseBitmap(payload []byte, endian binreader.Endian, store *Store) (*BitmapInfo, error) {
	// Pixel decoding is out of scope (spec §1); only the header
	// dimensions the core exposes via RenderSprite.w/h are read.
	r := binreader.New(payload, endian)
	if r.Len() < 8 {
		return &BitmapInfo{Payload: payload}, nil
	}
	top, _ := r.I16()
	left, _ := r.I16()
	bottom, _ := r.I16()
	right, _ := r.I16()
	return &BitmapInfo{
		Width:   int(right - left),
		Height:  int(bottom - top),
		Payload: payload,
	}, nil
}

func parseText(payload []byte, endian binreader.Endian) (*TextInfo, error) {
	return &TextInfo{Text: string(payload)}, nil
}

func parseSound(payload []byte) (*SoundInfo, error) {
	return &SoundInfo{Payload: payload}, nil
}

func parseMedia(payload []byte) (*MediaInfo, error) {
	return &MediaInfo{Payload: payload}, nil
}
