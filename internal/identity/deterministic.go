package identity

import (
	"strconv"
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from key using go-hashid. Keys must be
// prefixed by kind so different records never share one.
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// AssetID returns the id of the seq-th asset created in namespace.
func AssetID(namespace string, seq int) string {
	return UUID("assetfield:asset:" + strings.TrimSpace(namespace) + ":" + strconv.Itoa(seq)).String()
}

// UploadID returns the id of the seq-th upload staged in namespace.
func UploadID(namespace string, seq int) string {
	return UUID("assetfield:upload:" + strings.TrimSpace(namespace) + ":" + strconv.Itoa(seq)).String()
}
