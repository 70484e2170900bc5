// Package container implements the binary container decoder and chunk
// model (C2/C3): parsing a RIFX/XFIR (or afterburner-compressed) byte
// slice into a typed, id-indexed chunk store. Modeled as a closed set of
// tagged chunk payloads, the way the teacher's db package parses a MOO
// database into a typed object store, but reading binary chunks instead
// of a line-oriented text format.
package container

// Chunk is a single entry in the container's chunk store: an id, its
// four-character type tag, and a typed payload (one of the *Info structs
// in chunks.go). A chunk whose parse failed is not stored at all; its
// failure is recorded in Store.Faults instead.
type Chunk struct {
	ID      int
	Tag     string
	Offset  int
	Payload any
}

// Store is the chunk store produced by Load: every successfully parsed
// chunk, plus singleton handles to the chunks spec §4.1 calls out by
// name (Config, KeyTable, CastList, ScriptContext, ScriptNames).
type Store struct {
	Endian Endian

	chunks map[int]*Chunk
	order  []int

	Config         *ConfigInfo
	KeyTable       *KeyTableInfo
	CastList       *CastListInfo
	ScriptNames    *ScriptNamesInfo
	ScriptContexts map[int]*ScriptContextInfo // chunk id -> parsed context

	// Faults accumulates non-fatal per-chunk parse failures (spec §4.1:
	// "a parse failure for a single chunk is logged as a diagnostic and
	// skipped; other chunks still materialise").
	Faults []*ChunkParseError
}

func newStore(endian Endian) *Store {
	return &Store{
		Endian:         endian,
		chunks:         make(map[int]*Chunk),
		ScriptContexts: make(map[int]*ScriptContextInfo),
	}
}

func (s *Store) put(c *Chunk) {
	if _, exists := s.chunks[c.ID]; !exists {
		s.order = append(s.order, c.ID)
	}
	s.chunks[c.ID] = c
}

// NewStore creates an empty chunk store. Exposed for callers (tests,
// tooling) that build a store programmatically rather than via Load.
func NewStore(endian Endian) *Store { return newStore(endian) }

// Put inserts or replaces a chunk by id, updating the relevant singleton
// handle (Config, KeyTable, CastList, ScriptNames, ScriptContexts) when
// the payload matches one of those types.
func (s *Store) Put(c *Chunk) {
	s.put(c)
	switch p := c.Payload.(type) {
	case *ConfigInfo:
		s.Config = p
	case *KeyTableInfo:
		s.KeyTable = p
	case *CastListInfo:
		s.CastList = p
	case *ScriptNamesInfo:
		s.ScriptNames = p
	case *ScriptContextInfo:
		s.ScriptContexts[c.ID] = p
	}
}

// Get returns the chunk with the given id, and whether it was found.
// store.get(c.id) == c for every chunk previously put (spec §8 invariant).
func (s *Store) Get(id int) (*Chunk, bool) {
	c, ok := s.chunks[id]
	return c, ok
}

// ByTag returns every chunk carrying the given FourCC tag, in id order.
// Used by resolver fallbacks that scan the whole store rather than
// following a KeyTable edge (spec §4.3 "Fallback 1", "Fallback 2").
func (s *Store) ByTag(tag string) []*Chunk {
	var out []*Chunk
	for _, id := range s.order {
		c := s.chunks[id]
		if c.Tag == tag {
			out = append(out, c)
		}
	}
	return out
}

// Chunks returns every chunk in the store in ascending id-of-insertion
// order.
func (s *Store) Chunks() []*Chunk {
	out := make([]*Chunk, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.chunks[id])
	}
	return out
}

// Len reports how many chunks are present in the store.
func (s *Store) Len() int { return len(s.chunks) }

// addFault records a non-fatal chunk parse failure and continues.
func (s *Store) addFault(offset int, tag string, reason error) {
	s.Faults = append(s.Faults, &ChunkParseError{Offset: offset, Tag: tag, Reason: reason})
}
