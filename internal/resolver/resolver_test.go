package resolver

import (
	"testing"

	"libreshockwave/internal/container"
)

func buildStoreWithCast(t *testing.T, minMember int, memberIDs []int) *container.Store {
	t.Helper()
	store := container.NewStore(container.BigEndian)

	store.Put(&container.Chunk{ID: 1, Tag: "CASp", Payload: &container.CastInfo{MemberIDs: memberIDs}})
	store.Put(&container.Chunk{ID: 2, Tag: "MCsL", Payload: &container.CastListInfo{
		Libraries: []container.CastLibInfo{{Name: "internal", MinMember: minMember, CastChunkID: 1}},
	}})
	return store
}

func TestByNumberResolvesMember(t *testing.T) {
	store := buildStoreWithCast(t, 1, []int{0, 10, 11})
	store.Put(&container.Chunk{ID: 10, Tag: "CASt", Payload: &container.CastMemberInfo{ID: 10, Type: "script"}})

	member, chunkID, ok := ByNumber(store, 1, 2)
	if !ok {
		t.Fatal("expected member 2 to resolve")
	}
	if chunkID != 10 || member.ID != 10 {
		t.Errorf("got chunkID=%d member.ID=%d, want 10", chunkID, member.ID)
	}
}

func TestByNumberEmptySlotIsNull(t *testing.T) {
	store := buildStoreWithCast(t, 1, []int{0, 10})
	_, _, ok := ByNumber(store, 1, 1)
	if ok {
		t.Error("empty cast slot (chunk id 0) should not resolve")
	}
}

func TestByNumberOutOfRange(t *testing.T) {
	store := buildStoreWithCast(t, 1, []int{0, 10})
	_, _, ok := ByNumber(store, 1, 99)
	if ok {
		t.Error("out-of-range member number should not resolve")
	}
}

func TestScriptResolvesViaScriptContext(t *testing.T) {
	store := container.NewStore(container.BigEndian)
	store.Put(&container.Chunk{ID: 5, Tag: "Lscr", Payload: &container.ScriptInfo{ID: 5, Type: container.ScriptTypeScore}})
	store.Put(&container.Chunk{ID: 6, Tag: "Lctx", Payload: &container.ScriptContextInfo{
		Entries: []container.ScriptContextEntry{{ScriptID: 1, ChunkID: 5, ScriptType: "score"}},
	}})

	member := &container.CastMemberInfo{ID: 100, Type: "script", ScriptID: 1}
	script, ok := Script(store, member)
	if !ok {
		t.Fatal("expected script to resolve via ScriptContext")
	}
	if script.ID != 5 {
		t.Errorf("got script.ID=%d, want 5", script.ID)
	}
}

func TestScriptFallsBackToMemberID(t *testing.T) {
	store := container.NewStore(container.BigEndian)
	store.Put(&container.Chunk{ID: 42, Tag: "Lscr", Payload: &container.ScriptInfo{ID: 42}})

	member := &container.CastMemberInfo{ID: 42, Type: "script"} // no ScriptID set
	script, ok := Script(store, member)
	if !ok || script.ID != 42 {
		t.Errorf("expected fallback-1 resolution to chunk 42, got %v ok=%v", script, ok)
	}
}

func TestScriptAuthoritativeTypeOverridesChunkTag(t *testing.T) {
	store := container.NewStore(container.BigEndian)
	store.Put(&container.Chunk{ID: 7, Tag: "Lscr", Payload: &container.ScriptInfo{ID: 7, Type: container.ScriptTypeMovie}})

	member := &container.CastMemberInfo{ID: 7, Type: "script", ScriptType: "parent"}
	script, ok := Script(store, member)
	if !ok {
		t.Fatal("expected resolution")
	}
	if script.Type != container.ScriptTypeParent {
		t.Errorf("CastMember.ScriptType should win over the Script chunk's own tag, got %v", script.Type)
	}
}

func TestSoundConvertsMediaToSound(t *testing.T) {
	store := container.NewStore(container.BigEndian)
	store.Put(&container.Chunk{ID: 1, Tag: "ediM", Payload: &container.MediaInfo{Payload: []byte("abc")}})
	store.Put(&container.Chunk{ID: 2, Tag: "KEYp", Payload: &container.KeyTableInfo{
		Entries: []container.KeyTableEntry{{OwnerID: 50, SectionID: 1, FourCC: "ediM"}},
	}})

	member := &container.CastMemberInfo{ID: 50}
	sound, ok := Sound(store, member)
	if !ok {
		t.Fatal("expected sound to resolve via Media conversion")
	}
	if string(sound.Payload) != "abc" {
		t.Errorf("got %q, want abc", sound.Payload)
	}
}
