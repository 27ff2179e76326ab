package cryptox

import (
	"fmt"

	"github.com/dmitrijs2005/gophvault/internal/common"
)

// Hard ceilings for cost parameters read from untrusted input. A vault
// header is cleartext and is stretched before its tag can be checked, so
// these bound the work a crafted file can demand.
const (
	MaxIterations  = 16
	MaxMemory      = 1024 * 1024 // KiB
	MaxParallelism = 255
	MaxChunkSize   = 1024 // KiB
)

// Params tunes the password-stretching function.
//
// Memory is in KiB. ChunkSize is the I/O buffer (in KiB) used when vault
// files are read or written; it travels with the other tuning values so a
// single record configures the whole unit.
type Params struct {
	Iterations  uint32
	Memory      uint32
	Parallelism uint32
	ChunkSize   uint32
}

// DefaultParams returns the Argon2id default tuning (t=2, m=19 MiB, p=1).
func DefaultParams() Params {
	return Params{
		Iterations:  2,
		Memory:      19 * 1024,
		Parallelism: 1,
		ChunkSize:   16,
	}
}

// Validate fails fast when any parameter is zero or above its ceiling.
func (p Params) Validate() error {
	switch {
	case p.Iterations == 0, p.Memory == 0, p.Parallelism == 0, p.ChunkSize == 0:
		return fmt.Errorf("%w: zero value in %+v", common.ErrInvalidParams, p)
	case p.Iterations > MaxIterations:
		return fmt.Errorf("%w: iterations %d > %d", common.ErrInvalidParams, p.Iterations, MaxIterations)
	case p.Memory > MaxMemory:
		return fmt.Errorf("%w: memory %d KiB > %d KiB", common.ErrInvalidParams, p.Memory, MaxMemory)
	case p.Parallelism > MaxParallelism:
		return fmt.Errorf("%w: parallelism %d > %d", common.ErrInvalidParams, p.Parallelism, MaxParallelism)
	case p.ChunkSize > MaxChunkSize:
		return fmt.Errorf("%w: chunk size %d KiB > %d KiB", common.ErrInvalidParams, p.ChunkSize, MaxChunkSize)
	}
	return nil
}

// ChunkBytes returns ChunkSize in bytes.
func (p Params) ChunkBytes() int {
	return int(p.ChunkSize) * 1024
}
