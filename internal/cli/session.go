package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/dmitrijs2005/gophvault/internal/common"
	"github.com/dmitrijs2005/gophvault/internal/logging"
	"github.com/dmitrijs2005/gophvault/internal/vault"
)

// writeClipboard is a test seam for clipboard.WriteAll.
var writeClipboard = clipboard.WriteAll

// session is the REPL's view of one opened vault file.
type session struct {
	vm     *vault.Manager
	path   string
	cwd    *vault.DirectoryManager
	dirty  bool
	values prompter
	log    logging.Logger
}

func newSession(vm *vault.Manager, path string, values prompter, log logging.Logger) *session {
	return &session{vm: vm, path: path, values: values, log: log}
}

func (s *session) status() string {
	st := "/"
	if s.cwd != nil {
		st += s.cwd.Name()
	}
	if s.dirty {
		st += "*"
	}
	return st
}

func (s *session) Dirty() bool {
	return s.dirty
}

func (s *session) changed() {
	s.dirty = true
}

func (s *session) requireDir() (*vault.DirectoryManager, error) {
	if s.cwd == nil {
		return nil, fmt.Errorf("%w: not inside a directory, cd into one first", common.ErrInvalidInput)
	}
	return s.cwd, nil
}

func (s *session) List(ctx context.Context) error {
	if s.cwd == nil {
		for _, name := range s.vm.ListDirectories() {
			printlnFn(pathStyle.Sprint(name + "/"))
		}
		return nil
	}
	names, err := s.cwd.ListRecordNames()
	if err != nil {
		return err
	}
	for _, name := range names {
		printlnFn(name)
	}
	return nil
}

func (s *session) MakeDir(ctx context.Context, name string) error {
	if err := s.vm.AddDirectory(name); err != nil {
		return err
	}
	s.log.Debug(ctx, "directory added", "directory", name)
	s.changed()
	return nil
}

func (s *session) RemoveDir(ctx context.Context, name string) error {
	if err := s.vm.RemoveDirectory(name); err != nil {
		return err
	}
	if s.cwd != nil && s.cwd.Name() == "" {
		s.cwd = nil
	}
	s.log.Debug(ctx, "directory removed", "directory", name)
	s.changed()
	return nil
}

func (s *session) ChangeDir(ctx context.Context, name string) error {
	switch name {
	case "..", "/":
		s.cwd = nil
		return nil
	}
	dm, err := s.vm.OpenDirectory(strings.Trim(name, "/"))
	if err != nil {
		return err
	}
	s.cwd = dm
	return nil
}

func (s *session) RenameDir(ctx context.Context, oldName, newName string) error {
	dm, err := s.vm.OpenDirectory(oldName)
	if err != nil {
		return err
	}
	if err := dm.Rename(newName); err != nil {
		return err
	}
	s.changed()
	return nil
}

func (s *session) Add(ctx context.Context, name string) error {
	dm, err := s.requireDir()
	if err != nil {
		return err
	}
	value, err := s.values.PasswordPrompt("Value: ")
	if err != nil {
		return err
	}
	buf := []byte(value)
	defer common.WipeByteArray(buf)

	if err := dm.AddRecord(name, buf); err != nil {
		return err
	}
	s.changed()
	printlnFn(successStyle.Sprint("✓"), "added", name)
	return nil
}

func (s *session) Get(ctx context.Context, name string) error {
	dm, err := s.requireDir()
	if err != nil {
		return err
	}
	v, err := dm.GetRecord(name)
	if err != nil {
		return err
	}
	printlnFn(v)
	return nil
}

func (s *session) Remove(ctx context.Context, name string) error {
	dm, err := s.requireDir()
	if err != nil {
		return err
	}
	if err := dm.RemoveRecord(name); err != nil {
		return err
	}
	s.changed()
	return nil
}

func (s *session) Copy(ctx context.Context, name string) error {
	dm, err := s.requireDir()
	if err != nil {
		return err
	}
	v, err := dm.GetRecord(name)
	if err != nil {
		return err
	}
	if err := writeClipboard(v); err != nil {
		return fmt.Errorf("clipboard: %w", err)
	}
	printlnFn(successStyle.Sprint("✓"), "copied", name, "to clipboard")
	return nil
}

func (s *session) Info(ctx context.Context) error {
	info, err := s.vm.Info()
	if err != nil {
		return err
	}
	printlnFn("File:         ", pathStyle.Sprint(s.path))
	printlnFn("Created:      ", info.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	printlnFn("Modified:     ", info.LastModified.Local().Format("2006-01-02 15:04:05"))
	printlnFn("Directories:  ", info.Directories)
	printlnFn("Records:      ", info.Records)
	printlnFn("Argon2id:     ", mutedStyle.Sprintf("t=%d m=%dKiB p=%d", info.Params.Iterations, info.Params.Memory, info.Params.Parallelism))
	return nil
}

func (s *session) Save(ctx context.Context) error {
	if err := s.vm.Save(ctx, s.path); err != nil {
		return err
	}
	s.dirty = false
	printlnFn(successStyle.Sprint("✓"), "saved", pathStyle.Sprint(s.path))
	return nil
}
