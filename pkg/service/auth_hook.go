package service

import (
	cimcid "github.com/cimlabs/cim-ipld/pkg/cid"

	"github.com/cimlabs/cim-ipld/internal/auth"
)

// NewBearerAuthorHook returns a PreStoreHook that resolves a bearer token
// via tokenFn (e.g. the current request's Authorization header) and, if
// present, attaches the verified caller identity to the store's metadata
// as "author" — the JWT-derived equivalent of the teacher's GitHub-author
// attribution on SaveObjectWithAuthor, generalized to any identity
// provider's claims. A missing or absent token is not an error: hooks only
// attribute content when a caller identity is available.
func NewBearerAuthorHook(secret []byte, tokenFn func() string) PreStoreHook {
	return func(_ cimcid.CID, _ string, metadata map[string]string) error {
		token := tokenFn()
		if token == "" {
			return nil
		}
		id, err := auth.ExtractIdentity(token, secret)
		if err != nil {
			return err
		}
		metadata["author"] = id.Subject
		if id.UserName != "" {
			metadata["author_user_name"] = id.UserName
		}
		return nil
	}
}
