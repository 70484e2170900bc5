package container

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// buildMinimalMovie constructs a byte slice matching the layout S1
// describes: a RIFX container, one imap -> mmap chain, and a single
// Config (`DRCF`) chunk.
func buildMinimalMovie(t *testing.T, directorVersion, stageWidth, stageHeight, tempo int) []byte {
	t.Helper()
	buf := &bytes.Buffer{}
	be := binary.BigEndian

	write := func(v any) {
		if err := binary.Write(buf, be, v); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	buf.WriteString("RIFX")            // 0
	write(uint32(120))                 // 4: declared file size
	buf.WriteString("MV93")            // 8: movie FourCC
	buf.WriteString("imap")            // 12
	write(uint32(8))                   // 16: imap payload length
	write(int32(1))                    // 20: mapCount
	write(int32(28))                   // 24: mmapOffset
	buf.WriteString("mmap")            // 28
	write(uint32(40))                  // 32: mmap chunk length (informational)
	write(uint16(0))                   // 36: headerLen
	write(uint16(0))                   // 38: entryLen
	write(int32(1))                    // 40: chunkCountMax
	write(int32(1))                    // 44: chunkCountUsed
	write(int32(0))                    // 48: junkPtr
	buf.Write(make([]byte, 4))         // 52: reserved
	write(int32(0))                    // 56: freePtr
	buf.WriteString("DRCF")            // 60: entry fourcc
	write(int32(20))                   // 64: entry length (Config payload size)
	write(int32(80))                   // 68: entry offset (Config chunk header start)
	write(int16(0))                    // 72: entry flags
	buf.Write(make([]byte, 2))         // 74: entry reserved
	write(int32(0))                    // 76: entry link
	buf.WriteString("DRCF")            // 80: Config chunk's own tag
	write(uint32(20))                  // 84: Config chunk's own length
	write(uint16(20))                  // 88: Config payload: declared length
	write(uint16(0))                   // 90: file version marker
	write(int16(0))                    // 92: stageTop
	write(int16(0))                    // 94: stageLeft
	write(int16(stageHeight))          // 96: stageBottom
	write(int16(stageWidth))           // 98: stageRight
	buf.Write(make([]byte, 2))         // 100: reserved
	write(int16(tempo))                // 102: tempo
	buf.Write(make([]byte, 2))         // 104: platform
	write(int16(directorVersion))      // 106: directorVersion

	return buf.Bytes()
}

func TestLoadMinimalMovie(t *testing.T) {
	data := buildMinimalMovie(t, 1200, 320, 240, 15)
	store, err := Load(data)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(store.Faults) != 0 {
		t.Fatalf("unexpected faults: %v", store.Faults)
	}
	if store.Config == nil {
		t.Fatal("expected a Config chunk")
	}
	if store.Config.StageWidth != 320 || store.Config.StageHeight != 240 {
		t.Errorf("got stage %dx%d, want 320x240", store.Config.StageWidth, store.Config.StageHeight)
	}
	if store.Config.Tempo != 15 {
		t.Errorf("got tempo %d, want 15", store.Config.Tempo)
	}
	if store.Config.ChannelCount != 120 {
		t.Errorf("got channelCount %d, want 120 (scenario S1)", store.Config.ChannelCount)
	}
}

func TestLoadRejectsBadMagic(t *testing.T) {
	_, err := Load([]byte("NOPE0000MV93"))
	if err == nil {
		t.Fatal("expected an error for bad magic")
	}
	cerr, ok := err.(*ContainerError)
	if !ok || cerr.Code != NotAContainer {
		t.Errorf("got %v, want NotAContainer", err)
	}
}

func TestLoadTruncatedHeader(t *testing.T) {
	_, err := Load([]byte("RIFX"))
	if err == nil {
		t.Fatal("expected a truncation error")
	}
}

func TestStoreGetRoundTrip(t *testing.T) {
	data := buildMinimalMovie(t, 1200, 320, 240, 15)
	store, err := Load(data)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	for _, c := range store.Chunks() {
		got, ok := store.Get(c.ID)
		if !ok || got != c {
			t.Errorf("store.Get(%d) did not round-trip", c.ID)
		}
	}
}

func TestChannelCountBrackets(t *testing.T) {
	cases := []struct {
		version int
		want    int
	}{
		{1000, 48}, {1149, 48}, {1150, 120}, {1200, 120}, {1499, 120}, {1500, 1000}, {1800, 1000},
	}
	for _, c := range cases {
		if got := channelCountForVersion(c.version); got != c.want {
			t.Errorf("channelCountForVersion(%d) = %d, want %d", c.version, got, c.want)
		}
	}
}
