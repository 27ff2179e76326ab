package envelope

import "google.golang.org/protobuf/encoding/protowire"

const (
	headerSignature protowire.Number = iota + 1
	headerVersion
	headerMasterSalt
	headerMasterNonce
	headerArgonSalt
	headerIterations
	headerMemory
	headerParallelism
)

// MarshalHeader encodes h. The result is stable for a given header and is
// used verbatim as associated data for the body seal.
func MarshalHeader(h *Header) []byte {
	var b []byte
	b = protowire.AppendTag(b, headerSignature, protowire.Fixed32Type)
	b = protowire.AppendFixed32(b, h.Signature)
	b = appendVarintField(b, headerVersion, uint64(h.Version))
	b = appendBytesField(b, headerMasterSalt, h.MasterSalt)
	b = appendBytesField(b, headerMasterNonce, h.MasterNonce)
	b = appendBytesField(b, headerArgonSalt, h.ArgonSalt)
	b = appendVarintField(b, headerIterations, uint64(h.Iterations))
	b = appendVarintField(b, headerMemory, uint64(h.Memory))
	b = appendVarintField(b, headerParallelism, uint64(h.Parallelism))
	return b
}

// UnmarshalHeader decodes and validates a header. Signature, version, salt
// lengths and cost parameters are all checked here, before any key is
// derived from the header's contents.
func UnmarshalHeader(data []byte) (*Header, error) {
	h := &Header{}
	r := newFieldReader("header", data)

	for r.more() {
		num, typ, err := r.tag()
		if err != nil {
			return nil, err
		}
		switch num {
		case headerSignature:
			h.Signature, err = r.fixed32(num, typ)
		case headerVersion:
			h.Version, err = r.varint32(num, typ)
		case headerMasterSalt:
			h.MasterSalt, err = r.clone(num, typ)
		case headerMasterNonce:
			h.MasterNonce, err = r.clone(num, typ)
		case headerArgonSalt:
			h.ArgonSalt, err = r.clone(num, typ)
		case headerIterations:
			h.Iterations, err = r.varint32(num, typ)
		case headerMemory:
			h.Memory, err = r.varint32(num, typ)
		case headerParallelism:
			h.Parallelism, err = r.varint32(num, typ)
		default:
			err = r.skip(num, typ)
		}
		if err != nil {
			return nil, err
		}
	}

	if err := h.Validate(); err != nil {
		return nil, err
	}
	return h, nil
}
