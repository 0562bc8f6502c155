// Package pagination normalizes list request paging for gRPC services.
package pagination

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidPageToken reports a page token this package did not issue.
var ErrInvalidPageToken = errors.New("invalid page token")

const tokenPrefix = "after:"

// PageSizeConfig configures page size normalization.
type PageSizeConfig struct {
	Default int
	Max     int
}

// ClampPageSize applies defaults and limits for page sizes.
func ClampPageSize(value int32, cfg PageSizeConfig) int {
	pageSize := int(value)
	if pageSize <= 0 {
		pageSize = cfg.Default
	}
	if cfg.Max > 0 && pageSize > cfg.Max {
		pageSize = cfg.Max
	}
	if pageSize <= 0 {
		pageSize = 1
	}
	return pageSize
}

// EncodeToken wraps a storage cursor into an opaque page token. An empty
// cursor yields an empty token.
func EncodeToken(cursor string) string {
	if cursor == "" {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString([]byte(tokenPrefix + cursor))
}

// DecodeToken returns the storage cursor carried by a page token. An empty
// token yields an empty cursor.
func DecodeToken(token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidPageToken, err)
	}
	cursor, ok := strings.CutPrefix(string(raw), tokenPrefix)
	if !ok || cursor == "" {
		return "", ErrInvalidPageToken
	}
	return cursor, nil
}
