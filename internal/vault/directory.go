package vault

import (
	"fmt"
	"unicode/utf8"

	"github.com/dmitrijs2005/gophvault/internal/common"
	"github.com/dmitrijs2005/gophvault/internal/cryptox"
	"github.com/dmitrijs2005/gophvault/internal/envelope"
)

// DirectoryManager performs record operations on one directory of a
// Manager. It holds no key material and no pointer into the body; the
// directory is looked up by its salt on every call.
type DirectoryManager struct {
	vm   *Manager
	salt []byte
}

func (d *DirectoryManager) dir() (*envelope.Directory, error) {
	if !d.vm.Loaded() {
		return nil, common.ErrNotInitialized
	}
	dir := d.vm.directoryBySalt(d.salt)
	if dir == nil {
		return nil, common.ErrDirectoryNotFound
	}
	return dir, nil
}

// Name returns the current directory name, or "" if it no longer exists.
func (d *DirectoryManager) Name() string {
	dir, err := d.dir()
	if err != nil {
		return ""
	}
	return dir.Name
}

// nonceSalt is body salt ‖ directory salt.
func (d *DirectoryManager) nonceSalt(dir *envelope.Directory) []byte {
	s := make([]byte, 0, len(d.vm.body.Salt)+len(dir.Salt))
	s = append(s, d.vm.body.Salt...)
	return append(s, dir.Salt...)
}

// AddRecord seals value under name and appends it to the directory. The
// caller keeps ownership of value.
func (d *DirectoryManager) AddRecord(name string, value []byte) error {
	dir, err := d.dir()
	if err != nil {
		return err
	}
	if err := validateRecordName(name); err != nil {
		return err
	}
	if recordIndex(dir, name) >= 0 {
		return fmt.Errorf("record %q %w", name, common.ErrAlreadyExists)
	}

	index := dir.NextIndex
	if n := uint64(len(dir.Records)); index < n {
		index = n
	}

	nonce, err := cryptox.DeterministicNonce(d.vm.params, d.nonceSalt(dir), index)
	if err != nil {
		return err
	}
	aead, err := cryptox.DeriveCipherKey(d.vm.masterKey, d.vm.body.Salt)
	if err != nil {
		return err
	}

	plaintext := append([]byte{}, value...)
	data, err := cryptox.Seal(aead, nonce, plaintext, []byte(name))
	if err != nil {
		common.WipeByteArray(plaintext)
		return fmt.Errorf("%w: record %q: %v", common.ErrSeal, name, err)
	}

	dir.Records = append(dir.Records, envelope.Record{Name: name, Nonce: nonce, Data: data})
	dir.NextIndex = index + 1
	d.vm.touch()
	return nil
}

// GetRecord opens and returns the value stored under name.
func (d *DirectoryManager) GetRecord(name string) (string, error) {
	dir, err := d.dir()
	if err != nil {
		return "", err
	}
	i := recordIndex(dir, name)
	if i < 0 {
		return "", fmt.Errorf("%w: %q", common.ErrRecordNotFound, name)
	}
	rec := dir.Records[i]

	aead, err := cryptox.DeriveCipherKey(d.vm.masterKey, d.vm.body.Salt)
	if err != nil {
		return "", err
	}
	plaintext, err := cryptox.Open(aead, rec.Nonce, rec.Data, []byte(name))
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(plaintext)

	if !utf8.Valid(plaintext) {
		return "", fmt.Errorf("%w: record %q", common.ErrEncoding, name)
	}
	return string(plaintext), nil
}

// RemoveRecord removes the first record called name. Its index is not
// reused.
func (d *DirectoryManager) RemoveRecord(name string) error {
	dir, err := d.dir()
	if err != nil {
		return err
	}
	i := recordIndex(dir, name)
	if i < 0 {
		return fmt.Errorf("%w: %q", common.ErrRecordNotFound, name)
	}

	dir.Records = append(dir.Records[:i], dir.Records[i+1:]...)
	d.vm.touch()
	return nil
}

// Rename renames the directory. Records are bound to their own names, not
// the directory's, so nothing is re-encrypted.
func (d *DirectoryManager) Rename(newName string) error {
	dir, err := d.dir()
	if err != nil {
		return err
	}
	if err := validateDirectoryName(newName); err != nil {
		return err
	}
	if dir.Name == newName {
		return nil
	}
	if d.vm.directoryIndex(newName) >= 0 {
		return fmt.Errorf("directory %q %w", newName, common.ErrAlreadyExists)
	}

	dir.Name = newName
	d.vm.touch()
	return nil
}

// ListRecordNames returns record names in insertion order.
func (d *DirectoryManager) ListRecordNames() ([]string, error) {
	dir, err := d.dir()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(dir.Records))
	for _, r := range dir.Records {
		names = append(names, r.Name)
	}
	return names, nil
}

func recordIndex(dir *envelope.Directory, name string) int {
	for i := range dir.Records {
		if dir.Records[i].Name == name {
			return i
		}
	}
	return -1
}
