package envelope

import (
	"fmt"

	"github.com/dmitrijs2005/gophvault/internal/common"
	"google.golang.org/protobuf/encoding/protowire"
)

// fieldReader walks a protobuf message one field at a time.
type fieldReader struct {
	msg string
	b   []byte
}

func newFieldReader(msg string, b []byte) *fieldReader {
	return &fieldReader{msg: msg, b: b}
}

func (r *fieldReader) more() bool {
	return len(r.b) > 0
}

func (r *fieldReader) fail(n int) error {
	return fmt.Errorf("%w: %s: %v", common.ErrParse, r.msg, protowire.ParseError(n))
}

func (r *fieldReader) expect(num protowire.Number, got, want protowire.Type) error {
	if got != want {
		return fmt.Errorf("%w: %s: field %d has wire type %d, want %d", common.ErrParse, r.msg, num, got, want)
	}
	return nil
}

func (r *fieldReader) tag() (protowire.Number, protowire.Type, error) {
	num, typ, n := protowire.ConsumeTag(r.b)
	if n < 0 {
		return 0, 0, r.fail(n)
	}
	r.b = r.b[n:]
	return num, typ, nil
}

func (r *fieldReader) varint(num protowire.Number, typ protowire.Type) (uint64, error) {
	if err := r.expect(num, typ, protowire.VarintType); err != nil {
		return 0, err
	}
	v, n := protowire.ConsumeVarint(r.b)
	if n < 0 {
		return 0, r.fail(n)
	}
	r.b = r.b[n:]
	return v, nil
}

func (r *fieldReader) varint32(num protowire.Number, typ protowire.Type) (uint32, error) {
	v, err := r.varint(num, typ)
	if err != nil {
		return 0, err
	}
	if v > 1<<32-1 {
		return 0, fmt.Errorf("%w: %s: field %d overflows uint32", common.ErrParse, r.msg, num)
	}
	return uint32(v), nil
}

func (r *fieldReader) fixed32(num protowire.Number, typ protowire.Type) (uint32, error) {
	if err := r.expect(num, typ, protowire.Fixed32Type); err != nil {
		return 0, err
	}
	v, n := protowire.ConsumeFixed32(r.b)
	if n < 0 {
		return 0, r.fail(n)
	}
	r.b = r.b[n:]
	return v, nil
}

// bytes returns a sub-slice of the input. Callers that keep the value must
// clone it.
func (r *fieldReader) bytes(num protowire.Number, typ protowire.Type) ([]byte, error) {
	if err := r.expect(num, typ, protowire.BytesType); err != nil {
		return nil, err
	}
	v, n := protowire.ConsumeBytes(r.b)
	if n < 0 {
		return nil, r.fail(n)
	}
	r.b = r.b[n:]
	return v, nil
}

func (r *fieldReader) clone(num protowire.Number, typ protowire.Type) ([]byte, error) {
	v, err := r.bytes(num, typ)
	if err != nil {
		return nil, err
	}
	return append([]byte{}, v...), nil
}

func (r *fieldReader) text(num protowire.Number, typ protowire.Type) (string, error) {
	v, err := r.bytes(num, typ)
	if err != nil {
		return "", err
	}
	return string(v), nil
}

func (r *fieldReader) skip(num protowire.Number, typ protowire.Type) error {
	n := protowire.ConsumeFieldValue(num, typ, r.b)
	if n < 0 {
		return r.fail(n)
	}
	r.b = r.b[n:]
	return nil
}

func appendBytesField(b []byte, num protowire.Number, v []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

func appendVarintField(b []byte, num protowire.Number, v uint64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}
