package identity

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"
)

const contextKey = "identity"

// Identity is the caller resolved from a bearer token.
type Identity struct {
	ID       bson.ObjectID
	Username string
	Email    string
}

// Author 作者名：优先用户名，否则使用 ID
func (i *Identity) Author() string {
	if i.Username != "" {
		return i.Username
	}
	return i.ID.Hex()
}

// Subject 反应记录的用户键：优先 ID，否则使用用户名
func (i *Identity) Subject() string {
	if !i.ID.IsZero() {
		return i.ID.Hex()
	}
	return i.Username
}

// Set 写入请求上下文
func Set(c *gin.Context, id *Identity) {
	c.Set(contextKey, id)
}

// From returns the identity stored by the auth middleware, if any.
func From(c *gin.Context) (*Identity, bool) {
	v, ok := c.Get(contextKey)
	if !ok {
		return nil, false
	}
	id, ok := v.(*Identity)
	return id, ok && id != nil
}
