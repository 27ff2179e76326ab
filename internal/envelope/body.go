package envelope

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophvault/internal/common"
	"google.golang.org/protobuf/encoding/protowire"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/timestamppb"
)

const (
	bodySalt protowire.Number = iota + 1
	bodyCreatedAt
	bodyLastModified
	bodyDirectories
)

const (
	directoryName protowire.Number = iota + 1
	directoryRecords
	directorySalt
	directoryNextIndex
)

const (
	recordName protowire.Number = iota + 1
	recordNonce
	recordData
)

var timestampMarshal = proto.MarshalOptions{Deterministic: true}

// MarshalBody encodes b into its cleartext wire form.
func MarshalBody(b *Body) ([]byte, error) {
	var out []byte
	out = appendBytesField(out, bodySalt, b.Salt)

	for _, f := range []struct {
		num protowire.Number
		t   time.Time
	}{
		{bodyCreatedAt, b.CreatedAt},
		{bodyLastModified, b.LastModified},
	} {
		ts, err := timestampMarshal.Marshal(timestamppb.New(f.t))
		if err != nil {
			return nil, fmt.Errorf("%w: timestamp: %v", common.ErrSerialization, err)
		}
		out = appendBytesField(out, f.num, ts)
	}

	for i := range b.Directories {
		out = appendBytesField(out, bodyDirectories, marshalDirectory(&b.Directories[i]))
	}
	return out, nil
}

func marshalDirectory(d *Directory) []byte {
	var b []byte
	b = protowire.AppendTag(b, directoryName, protowire.BytesType)
	b = protowire.AppendString(b, d.Name)
	for i := range d.Records {
		b = appendBytesField(b, directoryRecords, marshalRecord(&d.Records[i]))
	}
	b = appendBytesField(b, directorySalt, d.Salt)
	b = appendVarintField(b, directoryNextIndex, d.NextIndex)
	return b
}

func marshalRecord(rec *Record) []byte {
	var b []byte
	b = protowire.AppendTag(b, recordName, protowire.BytesType)
	b = protowire.AppendString(b, rec.Name)
	b = appendBytesField(b, recordNonce, rec.Nonce)
	b = appendBytesField(b, recordData, rec.Data)
	return b
}

// UnmarshalBody decodes a cleartext body.
func UnmarshalBody(data []byte) (*Body, error) {
	b := &Body{}
	r := newFieldReader("body", data)

	for r.more() {
		num, typ, err := r.tag()
		if err != nil {
			return nil, err
		}
		switch num {
		case bodySalt:
			b.Salt, err = r.clone(num, typ)
		case bodyCreatedAt:
			b.CreatedAt, err = readTimestamp(r, num, typ)
		case bodyLastModified:
			b.LastModified, err = readTimestamp(r, num, typ)
		case bodyDirectories:
			var raw []byte
			if raw, err = r.bytes(num, typ); err == nil {
				var d *Directory
				if d, err = unmarshalDirectory(raw); err == nil {
					b.Directories = append(b.Directories, *d)
				}
			}
		default:
			err = r.skip(num, typ)
		}
		if err != nil {
			return nil, err
		}
	}
	return b, nil
}

func readTimestamp(r *fieldReader, num protowire.Number, typ protowire.Type) (time.Time, error) {
	raw, err := r.bytes(num, typ)
	if err != nil {
		return time.Time{}, err
	}
	var ts timestamppb.Timestamp
	if err := proto.Unmarshal(raw, &ts); err != nil {
		return time.Time{}, fmt.Errorf("%w: timestamp: %v", common.ErrParse, err)
	}
	if err := ts.CheckValid(); err != nil {
		return time.Time{}, fmt.Errorf("%w: timestamp: %v", common.ErrParse, err)
	}
	return ts.AsTime(), nil
}

func unmarshalDirectory(data []byte) (*Directory, error) {
	d := &Directory{}
	r := newFieldReader("directory", data)

	for r.more() {
		num, typ, err := r.tag()
		if err != nil {
			return nil, err
		}
		switch num {
		case directoryName:
			d.Name, err = r.text(num, typ)
		case directoryRecords:
			var raw []byte
			if raw, err = r.bytes(num, typ); err == nil {
				var rec *Record
				if rec, err = unmarshalRecord(raw); err == nil {
					d.Records = append(d.Records, *rec)
				}
			}
		case directorySalt:
			d.Salt, err = r.clone(num, typ)
		case directoryNextIndex:
			d.NextIndex, err = r.varint(num, typ)
		default:
			err = r.skip(num, typ)
		}
		if err != nil {
			return nil, err
		}
	}
	return d, nil
}

func unmarshalRecord(data []byte) (*Record, error) {
	rec := &Record{}
	r := newFieldReader("record", data)

	for r.more() {
		num, typ, err := r.tag()
		if err != nil {
			return nil, err
		}
		switch num {
		case recordName:
			rec.Name, err = r.text(num, typ)
		case recordNonce:
			rec.Nonce, err = r.clone(num, typ)
		case recordData:
			rec.Data, err = r.clone(num, typ)
		default:
			err = r.skip(num, typ)
		}
		if err != nil {
			return nil, err
		}
	}
	return rec, nil
}
