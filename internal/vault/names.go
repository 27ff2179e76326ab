package vault

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dmitrijs2005/gophvault/internal/common"
)

func validateDirectoryName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: directory name cannot be empty", common.ErrInvalidName)
	}
	if !utf8.ValidString(name) {
		return fmt.Errorf("%w: directory name is not valid utf-8", common.ErrInvalidName)
	}
	first, _ := utf8.DecodeRuneInString(name)
	if unicode.IsDigit(first) {
		return fmt.Errorf("%w: directory name cannot start with a number", common.ErrInvalidName)
	}
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return fmt.Errorf("%w: directory name must only consist of alphanumeric characters", common.ErrInvalidName)
		}
	}
	return nil
}

func validateRecordName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: record name cannot be empty", common.ErrInvalidName)
	}
	if !utf8.ValidString(name) {
		return fmt.Errorf("%w: record name is not valid utf-8", common.ErrInvalidName)
	}
	if strings.IndexFunc(name, unicode.IsSpace) >= 0 {
		return fmt.Errorf("%w: record name cannot contain whitespace", common.ErrInvalidName)
	}
	return nil
}
