package domain

import (
	"fmt"
	"strings"
)

// ObjectKey identifies an original in the blob store: a content hash plus the
// extension it was uploaded with.
type ObjectKey struct {
	Hash      string
	Extension string
}

// ParseKey splits an external key on its last dot.
func ParseKey(key string) (ObjectKey, error) {
	i := strings.LastIndex(key, ".")
	if i <= 0 || i == len(key)-1 {
		return ObjectKey{}, fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}

	return ObjectKey{Hash: key[:i], Extension: key[i+1:]}, nil
}

// ObjectName is the blob store object identifier for the key.
func (k ObjectKey) ObjectName() string {
	return k.Hash + "." + k.Extension
}

func (k ObjectKey) String() string {
	return k.ObjectName()
}
