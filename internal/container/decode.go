package container

import (
	"fmt"

	"libreshockwave/internal/binreader"
)

// rawChunk is an unparsed chunk located by either the uncompressed mmap
// or the afterburner directory: a tag, the bytes to hand to a per-type
// parser, and the offset to report in diagnostics.
type rawChunk struct {
	ID     int
	Tag    string
	Offset int
	Bytes  []byte
}

// Load parses a byte slice in either the uncompressed RIFX/XFIR form or
// the afterburner-compressed form into a Store (spec §4.1). Fatal errors
// (bad magic, truncation, a corrupt memory map) are returned directly;
// a single chunk's parse failure is recorded in Store.Faults and that
// chunk is simply absent, per spec §7's "local recovery boundaries".
func Load(data []byte) (*Store, error) {
	h, r, err := parseHeader(data)
	if err != nil {
		return nil, err
	}

	var raws []rawChunk
	if h.isAfterburner() {
		raws, err = loadAfterburnerChunks(data, r)
	} else {
		raws, err = loadUncompressedChunks(data, r)
	}
	if err != nil {
		return nil, err
	}

	store := newStore(h.Endian)

	// Version discovery: parse Config first so downstream per-chunk
	// parsers can branch on directorVersion (spec §4.1).
	for _, rc := range raws {
		if isConfigTag(rc.Tag) {
			cfg, err := parseConfig(rc.Bytes, h.Endian)
			if err != nil {
				store.addFault(rc.Offset, rc.Tag, err)
				continue
			}
			store.Config = cfg
			break
		}
	}
	if store.Config == nil {
		// No Config chunk: fall back to documented defaults (spec §4.4
		// "Frame count / channel count ... or explicit defaults if
		// absent") rather than failing the whole load.
		store.Config = &ConfigInfo{MinMember: 1, ChannelCount: 48}
	}

	for _, rc := range raws {
		payload, err := parseChunkPayload(rc.Tag, rc.Bytes, h.Endian, store)
		if err != nil {
			store.addFault(rc.Offset, rc.Tag, err)
			continue
		}
		store.Put(&Chunk{ID: rc.ID, Tag: rc.Tag, Offset: rc.Offset, Payload: payload})
	}

	// A second pass links ScriptInfo payloads to whichever ScriptNames
	// table the store ended up with, since Script chunks are commonly
	// parsed before ScriptNames appears in mmap order.
	if store.ScriptNames != nil {
		for _, c := range store.Chunks() {
			if s, ok := c.Payload.(*ScriptInfo); ok && s.Names == nil {
				s.Names = store.ScriptNames
			}
		}
	}

	return store, nil
}

func loadUncompressedChunks(data []byte, r *binreader.Reader) ([]rawChunk, error) {
	entries, err := parseMemoryMap(r)
	if err != nil {
		return nil, err
	}
	raws := make([]rawChunk, 0, len(entries))
	for id, e := range entries {
		if !e.valid() {
			continue
		}
		// A chunk entry's offset points at the start of that chunk's own
		// (fourcc, length) header; the payload follows 8 bytes later.
		payloadStart := e.Offset + 8
		if payloadStart+e.Length > len(data) || e.Length < 0 {
			return nil, newContainerError("loadUncompressedChunks", MemoryMapCorrupt,
				fmt.Errorf("chunk %d (%s) out of bounds", id, e.FourCC))
		}
		raws = append(raws, rawChunk{
			ID: id, Tag: e.FourCC, Offset: e.Offset,
			Bytes: data[payloadStart : payloadStart+e.Length],
		})
	}
	return raws, nil
}

func loadAfterburnerChunks(data []byte, r *binreader.Reader) ([]rawChunk, error) {
	entries, fgeiBase, err := parseAfterburner(r)
	if err != nil {
		return nil, err
	}
	raws := make([]rawChunk, 0, len(entries))
	for id, e := range entries {
		bytes, err := resolveAfterburnerChunk(data, fgeiBase, e)
		if err != nil {
			// A single entry that cannot be extracted is non-fatal
			// (spec §7): a zero-length placeholder is emitted in its place
			// and the decompression error itself is not recorded. The
			// placeholder lands in Store.Faults only when its tag's parser
			// rejects empty input; text, sound, media, palette, bitmap and
			// unrecognised tags accept it and are stored with an empty
			// payload and no fault.
			raws = append(raws, rawChunk{ID: id, Tag: e.FourCC, Offset: e.Offset, Bytes: nil})
			continue
		}
		raws = append(raws, rawChunk{ID: id, Tag: e.FourCC, Offset: e.Offset, Bytes: bytes})
	}
	return raws, nil
}
