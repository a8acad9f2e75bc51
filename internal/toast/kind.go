package toast

import (
	"fmt"
	"strings"
)

// Kind classifies a toast and selects its styling, sound cue and default
// duration. The zero value is unspecified so that updates can leave the
// kind of an existing toast untouched.
type Kind string

// Toast kinds.
const (
	KindUnspecified Kind = ""
	KindNormal      Kind = "normal"
	KindAction      Kind = "action"
	KindSuccess     Kind = "success"
	KindInfo        Kind = "info"
	KindWarning     Kind = "warning"
	KindError       Kind = "error"

	// KindLoading marks an in-progress toast. Loading toasts never expire
	// on their own; publishing an update with a final kind releases them.
	KindLoading Kind = "loading"
)

// Kinds lists all concrete kinds.
func Kinds() []Kind {
	return []Kind{
		KindNormal,
		KindAction,
		KindSuccess,
		KindInfo,
		KindWarning,
		KindError,
		KindLoading,
	}
}

// Valid reports whether k is a concrete kind.
func (k Kind) Valid() bool {
	switch k {
	case KindNormal, KindAction, KindSuccess, KindInfo, KindWarning, KindError, KindLoading:
		return true
	}
	return false
}

func (k Kind) String() string {
	return string(k)
}

// ParseKind maps a user-supplied name to a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return KindUnspecified, fmt.Errorf("unknown toast kind %q", s)
	}
	return k, nil
}
