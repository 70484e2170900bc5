package container

import (
	"libreshockwave/internal/binreader"
)

// Endian re-exports binreader's endianness so callers of this package
// never need to import binreader directly just to call Load.
type Endian = binreader.Endian

const (
	BigEndian    = binreader.BigEndian
	LittleEndian = binreader.LittleEndian
)

// mmapEntry is one row of the uncompressed memory map (spec §4.1
// "Uncompressed path"): `(fourcc, length, offset, flags, reserved, link)`.
type mmapEntry struct {
	FourCC  string
	Length  int
	Offset  int
	Flags   int16
	Link    int32
}

// header is the parsed 12-byte container prologue.
type header struct {
	Endian    Endian
	FileSize  int
	MovieTag  string
}

// magic bytes that follow the 8-byte (fourcc, size) prologue and name the
// movie/cast type. "FGDM"/"FGDC" identify the afterburner-compressed
// variant (spec §4.1: "a separate magic identifies the compressed
// variant"); anything else is the uncompressed imap/mmap path.
const (
	tagFGDM = "FGDM" // Shockwave compressed movie
	tagFGDC = "FGDC" // Shockwave compressed cast
)

// parseHeader reads the container's 12-byte prologue and selects an
// endianness from the 4-byte magic (spec §4.1 "Container header").
func parseHeader(data []byte) (*header, *binreader.Reader, error) {
	if len(data) < 12 {
		return nil, nil, newContainerError("parseHeader", Truncated, nil)
	}
	magic := string(data[0:4])
	var endian Endian
	switch magic {
	case "RIFX":
		endian = BigEndian
	case "XFIR":
		endian = LittleEndian
	default:
		return nil, nil, newContainerError("parseHeader", NotAContainer, nil)
	}

	r := binreader.New(data, endian)
	r.Skip(4) // magic, already consumed above
	size, err := r.U32()
	if err != nil {
		return nil, nil, newContainerError("parseHeader", Truncated, err)
	}
	movieTag, err := r.FourCC()
	if err != nil {
		return nil, nil, newContainerError("parseHeader", Truncated, err)
	}
	return &header{Endian: endian, FileSize: int(size), MovieTag: movieTag}, r, nil
}

func (h *header) isAfterburner() bool {
	return h.MovieTag == tagFGDM || h.MovieTag == tagFGDC
}

// parseMemoryMap walks the uncompressed `imap` → `mmap` chain starting at
// r's current position (right after the 12-byte header) and returns the
// chunk directory (spec §4.1 "Uncompressed path").
func parseMemoryMap(r *binreader.Reader) ([]mmapEntry, error) {
	imapTag, err := r.FourCC()
	if err != nil {
		return nil, newContainerError("parseMemoryMap", Truncated, err)
	}
	if imapTag != "imap" {
		return nil, newContainerError("parseMemoryMap", MemoryMapCorrupt, nil)
	}
	imapLen, err := r.U32()
	if err != nil {
		return nil, newContainerError("parseMemoryMap", Truncated, err)
	}
	imapStart := r.Pos()

	// imap payload: (mapCount i32, mmapOffset i32, ...reserved)
	if _, err := r.I32(); err != nil { // mapCount, unused: a single mmap is assumed
		return nil, newContainerError("parseMemoryMap", Truncated, err)
	}
	mmapOffset, err := r.I32()
	if err != nil {
		return nil, newContainerError("parseMemoryMap", Truncated, err)
	}
	r.Seek(imapStart + int(imapLen))

	r.Seek(int(mmapOffset))
	mmapTag, err := r.FourCC()
	if err != nil {
		return nil, newContainerError("parseMemoryMap", Truncated, err)
	}
	if mmapTag != "mmap" {
		return nil, newContainerError("parseMemoryMap", MemoryMapCorrupt, nil)
	}
	if _, err := r.U32(); err != nil { // mmap chunk length, unused: entry count drives the loop
		return nil, newContainerError("parseMemoryMap", Truncated, err)
	}

	if _, err := r.U16(); err != nil { // headerLen
		return nil, newContainerError("parseMemoryMap", Truncated, err)
	}
	if _, err := r.U16(); err != nil { // entryLen
		return nil, newContainerError("parseMemoryMap", Truncated, err)
	}
	chunkCountMax, err := r.I32()
	if err != nil {
		return nil, newContainerError("parseMemoryMap", Truncated, err)
	}
	chunkCountUsed, err := r.I32()
	if err != nil {
		return nil, newContainerError("parseMemoryMap", Truncated, err)
	}
	if chunkCountUsed < 0 || int(chunkCountUsed) > int(chunkCountMax) {
		return nil, newContainerError("parseMemoryMap", MemoryMapCorrupt, nil)
	}
	if _, err := r.I32(); err != nil { // junkPtr
		return nil, newContainerError("parseMemoryMap", Truncated, err)
	}
	if _, err := r.Bytes(4); err != nil { // reserved
		return nil, newContainerError("parseMemoryMap", Truncated, err)
	}
	if _, err := r.I32(); err != nil { // freePtr
		return nil, newContainerError("parseMemoryMap", Truncated, err)
	}

	if r.Remaining() < int(chunkCountUsed)*20 {
		return nil, newContainerError("parseMemoryMap", MemoryMapCorrupt, nil)
	}

	entries := make([]mmapEntry, 0, chunkCountUsed)
	for i := 0; i < int(chunkCountUsed); i++ {
		fourcc, err := r.FourCC()
		if err != nil {
			return nil, newContainerError("parseMemoryMap", Truncated, err)
		}
		length, err := r.I32()
		if err != nil {
			return nil, newContainerError("parseMemoryMap", Truncated, err)
		}
		offset, err := r.I32()
		if err != nil {
			return nil, newContainerError("parseMemoryMap", Truncated, err)
		}
		flags, err := r.I16()
		if err != nil {
			return nil, newContainerError("parseMemoryMap", Truncated, err)
		}
		if _, err := r.Bytes(2); err != nil { // reserved
			return nil, newContainerError("parseMemoryMap", Truncated, err)
		}
		link, err := r.I32()
		if err != nil {
			return nil, newContainerError("parseMemoryMap", Truncated, err)
		}
		// Entries with zero fourcc or non-positive offset are skipped
		// (spec §4.1) but keep their index so chunk ids stay stable.
		entries = append(entries, mmapEntry{
			FourCC: fourcc, Length: int(length), Offset: int(offset),
			Flags: flags, Link: link,
		})
	}
	return entries, nil
}

func (e mmapEntry) valid() bool {
	return e.FourCC != "\x00\x00\x00\x00" && e.FourCC != "" && e.Offset > 0
}
