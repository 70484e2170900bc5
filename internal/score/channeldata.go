package score

import (
	"encoding/binary"

	"libreshockwave/internal/datum"
)

// BehaviorRef names a behaviour cast member attached to a sprite
// channel, plus the parameter values to seed its instance's property
// map with (spec §4.4 "behaviours are the secondary-channel entries
// that point at behaviour cast members plus optional parameter
// PropLists").
type BehaviorRef struct {
	CastLib      int
	MemberNumber int
	Params       datum.PropList
}

// decodeChannelData reads the score package's own wire layout for a
// FrameChannelEntry's ChannelData (spec.md gives no exact byte layout
// for Score channel payloads, only the logical shape): a big-endian
// castLib (4 bytes), memberNumber (4 bytes), then zero or more
// (keyLen byte, key bytes, int32 value) parameter triples.
func decodeChannelData(data []byte) (BehaviorRef, bool) {
	if len(data) < 8 {
		return BehaviorRef{}, false
	}
	castLib := int(int32(binary.BigEndian.Uint32(data[0:4])))
	memberNumber := int(int32(binary.BigEndian.Uint32(data[4:8])))

	params := datum.EmptyPropList()
	rest := data[8:]
	for len(rest) > 0 {
		keyLen := int(rest[0])
		rest = rest[1:]
		if keyLen <= 0 || keyLen+4 > len(rest) {
			break
		}
		key := string(rest[:keyLen])
		rest = rest[keyLen:]
		val := int32(binary.BigEndian.Uint32(rest[:4]))
		rest = rest[4:]
		params = params.Set(key, datum.NewInteger(val))
	}

	return BehaviorRef{CastLib: castLib, MemberNumber: memberNumber, Params: params}, true
}

// EncodeChannelData is the inverse of decodeChannelData, exposed so
// tests and tooling can synthesize Score fixtures without hand-rolling
// the byte layout.
func EncodeChannelData(ref BehaviorRef) []byte {
	out := make([]byte, 8)
	binary.BigEndian.PutUint32(out[0:4], uint32(ref.CastLib))
	binary.BigEndian.PutUint32(out[4:8], uint32(ref.MemberNumber))
	for _, k := range ref.Params.Keys() {
		v, _ := ref.Params.Get(k)
		iv, ok := v.(datum.Integer)
		if !ok {
			continue
		}
		out = append(out, byte(len(k)))
		out = append(out, []byte(k)...)
		valBytes := make([]byte, 4)
		binary.BigEndian.PutUint32(valBytes, uint32(iv.Val))
		out = append(out, valBytes...)
	}
	return out
}
