package model

//go:generate go run github.com/dmarkham/enumer -type CodecTag -trimprefix Codec -transform lower -json -sql -output codectag.gen.go

// CodecTag records which compression algorithm produced a stored blob.
// The tag is persisted alongside the storage reference so that blobs
// written by earlier codec choices can still be restored.
type CodecTag int

const (
	CodecNone CodecTag = iota
	CodecDeflate
	CodecGzip
	CodecZstd
)

// Ext returns the blob name suffix for the codec.
func (t CodecTag) Ext() string {
	switch t {
	case CodecDeflate:
		return ".deflate"
	case CodecGzip:
		return ".gz"
	case CodecZstd:
		return ".zst"
	default:
		return ""
	}
}
