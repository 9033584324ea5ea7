package utils

import (
	"github.com/aknur111/blog-web-site/pkg/errs"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// ParseID converts an external hex identifier into an ObjectID. Malformed
// input yields errs.ErrInvalidID so callers answer 400 without touching the
// store.
func ParseID(hex string) (bson.ObjectID, error) {
	return ParseNamedID(hex, "id")
}

// ParseNamedID 同 ParseID，错误信息中带参数名，如 "invalid post_id"
func ParseNamedID(hex, name string) (bson.ObjectID, error) {
	oid, err := bson.ObjectIDFromHex(hex)
	if err != nil {
		return bson.ObjectID{}, errs.InvalidID(name)
	}
	return oid, nil
}
