package container

import (
	"bytes"
	"compress/zlib"
	"io"

	"libreshockwave/internal/binreader"
)

// afterburnerEntry is one row of the compressed directory (spec §4.1
// "Compressed path"): `(fourcc, resourceId, offset, compressedSize,
// uncompressedSize, compressionMethod)`.
type afterburnerEntry struct {
	FourCC           string
	ResourceID       int32
	Offset           int
	CompressedSize   int
	UncompressedSize int
	CompressionMethod int32
}

const (
	compressionZlib     int32 = 0
	compressionIdentity int32 = 1
	// Any other compressionMethod value is a Shockwave-specific scheme
	// this decoder does not implement; such chunks do not halt loading
	// (spec §4.1/§7) and are handed on as empty placeholders (see
	// loadAfterburnerChunks).
)

// parseAfterburner reads the `Fver` / `Fcdr` / `ABMP` / `FGEI` chain that
// follows the 12-byte header in a compressed container and returns the
// chunk directory plus the byte offset where the `FGEI` compressed-blob
// section begins.
func parseAfterburner(r *binreader.Reader) ([]afterburnerEntry, int, error) {
	if err := skipTaggedChunk(r, "Fver"); err != nil {
		return nil, 0, newContainerError("parseAfterburner", MemoryMapCorrupt, err)
	}
	if err := skipTaggedChunk(r, "Fcdr"); err != nil {
		return nil, 0, newContainerError("parseAfterburner", MemoryMapCorrupt, err)
	}

	abmpTag, err := r.FourCC()
	if err != nil {
		return nil, 0, newContainerError("parseAfterburner", Truncated, err)
	}
	if abmpTag != "ABMP" {
		return nil, 0, newContainerError("parseAfterburner", MemoryMapCorrupt, nil)
	}
	abmpLen, err := r.U32()
	if err != nil {
		return nil, 0, newContainerError("parseAfterburner", Truncated, err)
	}
	compressed, err := r.Bytes(int(abmpLen))
	if err != nil {
		return nil, 0, newContainerError("parseAfterburner", Truncated, err)
	}
	dirBytes, err := inflateZlib(compressed)
	if err != nil {
		return nil, 0, newContainerError("parseAfterburner", MemoryMapCorrupt, err)
	}

	dirReader := binreader.New(dirBytes, r.Endian())
	count, err := dirReader.I32()
	if err != nil {
		return nil, 0, newContainerError("parseAfterburner", MemoryMapCorrupt, err)
	}
	entries := make([]afterburnerEntry, 0, count)
	for i := int32(0); i < count; i++ {
		fourcc, err := dirReader.FourCC()
		if err != nil {
			break
		}
		resID, err1 := dirReader.I32()
		off, err2 := dirReader.I32()
		csize, err3 := dirReader.I32()
		usize, err4 := dirReader.I32()
		method, err5 := dirReader.I32()
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil {
			break
		}
		entries = append(entries, afterburnerEntry{
			FourCC: fourcc, ResourceID: resID, Offset: int(off),
			CompressedSize: int(csize), UncompressedSize: int(usize),
			CompressionMethod: method,
		})
	}

	fgeiTag, err := r.FourCC()
	if err != nil {
		return nil, 0, newContainerError("parseAfterburner", Truncated, err)
	}
	if fgeiTag != "FGEI" {
		return nil, 0, newContainerError("parseAfterburner", MemoryMapCorrupt, nil)
	}
	if _, err := r.U32(); err != nil { // FGEI section length
		return nil, 0, newContainerError("parseAfterburner", Truncated, err)
	}
	fgeiBase := r.Pos()
	return entries, fgeiBase, nil
}

func skipTaggedChunk(r *binreader.Reader, want string) error {
	tag, err := r.FourCC()
	if err != nil {
		return err
	}
	if tag != want {
		return newContainerError("skipTaggedChunk", MemoryMapCorrupt, nil)
	}
	n, err := r.U32()
	if err != nil {
		return err
	}
	r.Skip(int(n))
	return nil
}

// resolveAfterburnerChunk decompresses the blob described by e out of the
// FGEI section, per the compression method recorded in the directory
// (spec §4.1: "zlib for one method, identity for another, a
// Shockwave-specific scheme for the third").
func resolveAfterburnerChunk(data []byte, fgeiBase int, e afterburnerEntry) ([]byte, error) {
	start := fgeiBase + e.Offset
	end := start + e.CompressedSize
	if start < 0 || end > len(data) || start > end {
		return nil, newContainerError("resolveAfterburnerChunk", Truncated, nil)
	}
	raw := data[start:end]
	switch e.CompressionMethod {
	case compressionIdentity:
		return raw, nil
	case compressionZlib:
		return inflateZlib(raw)
	default:
		return nil, newContainerError("resolveAfterburnerChunk", UnsupportedCompression, nil)
	}
}

func inflateZlib(data []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}
