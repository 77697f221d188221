package refs

import (
	"fmt"
	"strings"
)

// ValidateRefName checks name against git's check-ref-format rules.
func ValidateRefName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidName)
	}
	if name == "@" {
		return fmt.Errorf("%w %q", ErrInvalidName, name)
	}
	if strings.HasPrefix(name, "/") || strings.HasSuffix(name, "/") ||
		strings.HasSuffix(name, ".") || strings.Contains(name, "//") {
		return fmt.Errorf("%w %q", ErrInvalidName, name)
	}
	if strings.Contains(name, "..") || strings.Contains(name, "@{") {
		return fmt.Errorf("%w %q", ErrInvalidName, name)
	}
	for _, c := range name {
		if c < 0x20 || c == 0x7f || strings.ContainsRune(" ~^:?*[\\", c) {
			return fmt.Errorf("%w %q: forbidden character %q", ErrInvalidName, name, c)
		}
	}
	for _, part := range strings.Split(name, "/") {
		if strings.HasPrefix(part, ".") || strings.HasSuffix(part, ".lock") {
			return fmt.Errorf("%w %q", ErrInvalidName, name)
		}
	}
	return nil
}

// ValidateBranchName checks a short branch name such as "feature/x".
func ValidateBranchName(name string) error {
	if name == HEAD || strings.HasPrefix(name, "-") {
		return fmt.Errorf("%w: %q is not a valid branch name", ErrInvalidName, name)
	}
	return ValidateRefName(name)
}
