// Package resolver implements the C4 resolver layer: given a CastMember,
// find its associated Script/Sound/Palette/Text chunk via the KeyTable
// graph and the CastList/Cast member-number tables (spec §4.3).
package resolver

import "libreshockwave/internal/container"

// ByNumber computes `arrayIndex = memberNumber - minMember` into the cast
// library's member-id vector and resolves the chunk id found there to a
// CastMember (spec §4.3 "Cast-member lookup"). Returns ok=false for an
// empty slot (chunk id zero) or an out-of-range castLib/memberNumber,
// exactly as spec calls for ("a positive chunk id is resolved to a
// CastMember, else null").
func ByNumber(store *container.Store, castLib, memberNumber int) (*container.CastMemberInfo, int, bool) {
	minMember := minMemberFor(store, castLib)
	castChunkID, ok := castChunkIDFor(store, castLib)
	if !ok {
		return nil, 0, false
	}
	castChunk, ok := store.Get(castChunkID)
	if !ok {
		return nil, 0, false
	}
	cast, ok := castChunk.Payload.(*container.CastInfo)
	if !ok {
		return nil, 0, false
	}

	arrayIndex := memberNumber - minMember
	if arrayIndex < 0 || arrayIndex >= len(cast.MemberIDs) {
		return nil, 0, false
	}
	chunkID := cast.MemberIDs[arrayIndex]
	if chunkID <= 0 {
		return nil, 0, false
	}
	chunk, ok := store.Get(chunkID)
	if !ok {
		return nil, 0, false
	}
	member, ok := chunk.Payload.(*container.CastMemberInfo)
	if !ok {
		return nil, 0, false
	}
	return member, chunkID, true
}

func minMemberFor(store *container.Store, castLib int) int {
	if store.CastList != nil {
		idx := castLib - 1
		if idx >= 0 && idx < len(store.CastList.Libraries) {
			return store.CastList.Libraries[idx].MinMember
		}
	}
	if store.Config != nil && store.Config.MinMember != 0 {
		return store.Config.MinMember
	}
	return 1
}

func castChunkIDFor(store *container.Store, castLib int) (int, bool) {
	if store.CastList == nil {
		return 0, false
	}
	idx := castLib - 1
	if idx < 0 || idx >= len(store.CastList.Libraries) {
		return 0, false
	}
	return store.CastList.Libraries[idx].CastChunkID, true
}

// Script resolves a CastMember's Script chunk (spec §4.3 "Script"):
// preferred path through ScriptContext, then two fallbacks over the
// store and KeyTable.
func Script(store *container.Store, member *container.CastMemberInfo) (*container.ScriptInfo, bool) {
	if member.ScriptID > 0 {
		for _, ctx := range store.ScriptContexts {
			entry, ok := ctx.Entry(member.ScriptID)
			if !ok {
				continue
			}
			if chunk, ok := store.Get(entry.ChunkID); ok {
				if s, ok := chunk.Payload.(*container.ScriptInfo); ok {
					return applyAuthoritativeType(member, s), true
				}
			}
		}
	}

	// Fallback 1: a Script chunk whose id equals the member's own id.
	if chunk, ok := store.Get(member.ID); ok {
		if s, ok := chunk.Payload.(*container.ScriptInfo); ok {
			return applyAuthoritativeType(member, s), true
		}
	}

	// Fallback 2: any KeyTable entry (ownerId=member.id, fourcc in
	// {"Lscr","rcsL"}) whose sectionId is a Script chunk.
	if store.KeyTable != nil {
		for _, e := range store.KeyTable.ByOwner(member.ID) {
			if e.FourCC != "Lscr" && e.FourCC != "rcsL" {
				continue
			}
			if chunk, ok := store.Get(e.SectionID); ok {
				if s, ok := chunk.Payload.(*container.ScriptInfo); ok {
					return applyAuthoritativeType(member, s), true
				}
			}
		}
	}
	return nil, false
}

// applyAuthoritativeType implements spec §9's resolved open question:
// when the CastMember carries its own ScriptType, it wins over the
// Script chunk's own type tag.
func applyAuthoritativeType(member *container.CastMemberInfo, s *container.ScriptInfo) *container.ScriptInfo {
	if member.ScriptType == "" {
		return s
	}
	switch member.ScriptType {
	case "score":
		s.Type = container.ScriptTypeScore
	case "movie":
		s.Type = container.ScriptTypeMovie
	case "parent":
		s.Type = container.ScriptTypeParent
	}
	return s
}

// Sound resolves a CastMember's Sound chunk (spec §4.3 "Sound"): a
// KeyTable entry pointing to a Sound or Media chunk. A Media payload is
// converted to Sound before return.
func Sound(store *container.Store, member *container.CastMemberInfo) (*container.SoundInfo, bool) {
	if store.KeyTable == nil {
		return nil, false
	}
	for _, e := range store.KeyTable.ByOwner(member.ID) {
		chunk, ok := store.Get(e.SectionID)
		if !ok {
			continue
		}
		switch p := chunk.Payload.(type) {
		case *container.SoundInfo:
			return p, true
		case *container.MediaInfo:
			return &container.SoundInfo{Payload: p.Payload}, true
		}
	}
	return nil, false
}

// Palette resolves a CastMember's Palette chunk (spec §4.3 "Palette"):
// KeyTable fourcc "CLUT"/"TULC", falling back to any Palette chunk whose
// id equals the member's id.
func Palette(store *container.Store, member *container.CastMemberInfo) (*container.PaletteInfo, bool) {
	if store.KeyTable != nil {
		for _, e := range store.KeyTable.ByOwner(member.ID) {
			if e.FourCC != "CLUT" && e.FourCC != "TULC" {
				continue
			}
			if chunk, ok := store.Get(e.SectionID); ok {
				if p, ok := chunk.Payload.(*container.PaletteInfo); ok {
					return p, true
				}
			}
		}
	}
	if chunk, ok := store.Get(member.ID); ok {
		if p, ok := chunk.Payload.(*container.PaletteInfo); ok {
			return p, true
		}
	}
	return nil, false
}

// Text resolves a CastMember's Text chunk (spec §4.3 "Text"): KeyTable
// fourcc "STXT"/"TXTS", falling back to an "STXT"-tagged Text chunk whose
// id equals the member's id.
func Text(store *container.Store, member *container.CastMemberInfo) (*container.TextInfo, bool) {
	if store.KeyTable != nil {
		for _, e := range store.KeyTable.ByOwner(member.ID) {
			if e.FourCC != "STXT" && e.FourCC != "TXTS" {
				continue
			}
			if chunk, ok := store.Get(e.SectionID); ok {
				if t, ok := chunk.Payload.(*container.TextInfo); ok {
					return t, true
				}
			}
		}
	}
	for _, chunk := range store.ByTag("STXT") {
		if t, ok := chunk.Payload.(*container.TextInfo); ok && chunk.ID == member.ID {
			return t, true
		}
	}
	return nil, false
}
