package compilation

// Source is the content of one emitted asset.
type Source interface {
	Bytes() []byte
	Size() int
}

// RawSource is a Source backed by a byte slice.
type RawSource []byte

func (s RawSource) Bytes() []byte { return s }

func (s RawSource) Size() int { return len(s) }
