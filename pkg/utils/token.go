package utils

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// TokenBytes 令牌随机字节数，base64url 编码后 43 个字符
const TokenBytes = 32

// GenerateToken 生成不透明的访问令牌
func GenerateToken() (string, error) {
	buf := make([]byte, TokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
