package envelope

import (
	"fmt"

	"github.com/dmitrijs2005/gophvault/internal/common"
	"google.golang.org/protobuf/encoding/protowire"
)

const (
	fileHeader protowire.Number = 1
	fileBody   protowire.Number = 2
)

// MarshalFile frames the raw header bytes and the sealed body into the
// length-prefixed file representation.
func MarshalFile(header, sealedBody []byte) []byte {
	var env []byte
	env = appendBytesField(env, fileHeader, header)
	env = appendBytesField(env, fileBody, sealedBody)

	out := protowire.AppendVarint(make([]byte, 0, len(env)+protowire.SizeVarint(uint64(len(env)))), uint64(len(env)))
	return append(out, env...)
}

// UnmarshalFile splits a vault file into raw header bytes and sealed body.
// The header is returned undecoded so the caller can use the exact stored
// bytes as associated data.
func UnmarshalFile(data []byte) (header, sealedBody []byte, err error) {
	if len(data) == 0 {
		return nil, nil, common.ErrEmptyFile
	}

	size, n := protowire.ConsumeVarint(data)
	if n < 0 {
		return nil, nil, fmt.Errorf("%w: length prefix: %v", common.ErrParse, protowire.ParseError(n))
	}
	data = data[n:]
	if size != uint64(len(data)) {
		return nil, nil, fmt.Errorf("%w: length prefix says %d bytes, file has %d", common.ErrParse, size, len(data))
	}

	var hasHeader, hasBody bool
	r := newFieldReader("envelope", data)
	for r.more() {
		num, typ, err := r.tag()
		if err != nil {
			return nil, nil, err
		}
		switch num {
		case fileHeader:
			header, err = r.bytes(num, typ)
			hasHeader = err == nil
		case fileBody:
			sealedBody, err = r.bytes(num, typ)
			hasBody = err == nil
		default:
			err = r.skip(num, typ)
		}
		if err != nil {
			return nil, nil, err
		}
	}

	if !hasHeader {
		return nil, nil, common.ErrMissingHeader
	}
	if !hasBody {
		return nil, nil, fmt.Errorf("%w: missing body", common.ErrParse)
	}
	return header, sealedBody, nil
}
