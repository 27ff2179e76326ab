// Package envelope defines the on-disk vault format.
//
// A vault file is a varint length prefix followed by an envelope message with
// two fields: the cleartext Header (field 1, embedded message) and the sealed
// Body (field 2, bytes). Messages are encoded with protobuf wire format, and
// the Header bytes exactly as stored are the associated data of the Body
// seal, so they must never be re-encoded between read and open.
//
//	Header:    1 signature fixed32, 2 version, 3 master_salt, 4 master_nonce,
//	           5 argon_salt, 6 iterations, 7 memory, 8 parallelism
//	Body:      1 salt, 2 created_at, 3 last_modified, 4 directories
//	Directory: 1 name, 2 records, 3 salt, 4 next_index
//	Record:    1 name, 2 nonce, 3 data
//
// Unknown fields are skipped; known fields with the wrong wire type are
// rejected.
package envelope
