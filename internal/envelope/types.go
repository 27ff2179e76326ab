package envelope

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophvault/internal/common"
	"github.com/dmitrijs2005/gophvault/internal/cryptox"
)

const (
	// Signature is the magic number at the start of every header ("GVLT").
	Signature uint32 = 0x47564C54
	// Version is the only format version this package reads and writes.
	Version uint32 = 1

	// DirectorySaltSize is the size of the per-directory nonce salt.
	DirectorySaltSize = 16
)

// Header is the cleartext part of a vault file.
type Header struct {
	Signature   uint32
	Version     uint32
	MasterSalt  []byte
	MasterNonce []byte
	ArgonSalt   []byte
	Iterations  uint32
	Memory      uint32
	Parallelism uint32
}

// Params returns the stretching parameters recorded in the header. The chunk
// size is not part of the file and is taken from the caller.
func (h *Header) Params(chunkSize uint32) cryptox.Params {
	return cryptox.Params{
		Iterations:  h.Iterations,
		Memory:      h.Memory,
		Parallelism: h.Parallelism,
		ChunkSize:   chunkSize,
	}
}

// Validate checks everything that can be checked without a key.
func (h *Header) Validate() error {
	if h.Signature != Signature {
		return fmt.Errorf("%w: %#08x", common.ErrBadSignature, h.Signature)
	}
	if h.Version != Version {
		return fmt.Errorf("%w: %d", common.ErrUnsupportedVersion, h.Version)
	}
	if len(h.MasterSalt) != cryptox.SaltSize {
		return fmt.Errorf("%w: master salt is %d bytes", common.ErrParse, len(h.MasterSalt))
	}
	if len(h.MasterNonce) != cryptox.NonceSize {
		return fmt.Errorf("%w: master nonce is %d bytes", common.ErrParse, len(h.MasterNonce))
	}
	if len(h.ArgonSalt) != cryptox.SaltSize {
		return fmt.Errorf("%w: argon salt is %d bytes", common.ErrParse, len(h.ArgonSalt))
	}
	if err := h.Params(1).Validate(); err != nil {
		return fmt.Errorf("%w: %v", common.ErrParse, err)
	}
	return nil
}

// Body is the encrypted part of a vault file. It only ever exists in
// cleartext in memory.
type Body struct {
	Salt         []byte
	CreatedAt    time.Time
	LastModified time.Time
	Directories  []Directory
}

// Directory is a named, ordered list of records.
//
// Salt identifies the directory for nonce derivation and never changes, even
// across renames. NextIndex only grows, so a record index is never handed out
// twice within a directory.
type Directory struct {
	Name      string
	Salt      []byte
	NextIndex uint64
	Records   []Record
}

// Record is a single sealed secret. Data is ciphertext with the GCM tag
// appended; Name is the associated data.
type Record struct {
	Name  string
	Nonce []byte
	Data  []byte
}
