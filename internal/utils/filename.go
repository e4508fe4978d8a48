package utils

import (
	"fmt"
	"hash/fnv"
	"path/filepath"
	"strings"
)

// DeriveAvatarFilename builds a deterministic stored name for an uploaded
// image: a non-cryptographic hash of username plus the original filename,
// keeping the original extension. Collisions across different uploads are
// possible and accepted; this is an identity scheme, not a security one.
func DeriveAvatarFilename(username, originalFilename string) string {
	h := fnv.New32a()
	h.Write([]byte(username + originalFilename))
	ext := strings.ToLower(filepath.Ext(originalFilename))
	return fmt.Sprintf("%d%s", h.Sum32(), ext)
}
