package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"
)

// Service stores employee photos in remote object storage.
type Service interface {
	// Upload stores body under bucket/key and returns its s3:// location.
	Upload(ctx context.Context, bucket, key string, body io.Reader, contentType string) (string, error)
	// DeletePrefix removes every object whose key starts with prefix.
	DeletePrefix(ctx context.Context, bucket, prefix string) error
	GetObjectURL(ctx context.Context, bucket, key string, expires time.Duration) (string, error)
}

// Location formats an s3:// location.
func Location(bucket, key string) string {
	return fmt.Sprintf("s3://%s/%s", bucket, strings.TrimPrefix(key, "/"))
}

// IsLocation reports whether v looks like an s3:// location.
func IsLocation(v string) bool {
	return strings.HasPrefix(v, "s3://")
}

// ParseLocation splits an s3:// location into bucket and key. When bucket is
// non-empty the location must point into it.
func ParseLocation(location, bucket string) (string, string, error) {
	if !IsLocation(location) {
		return "", "", fmt.Errorf("invalid s3 location")
	}
	rest := strings.TrimPrefix(location, "s3://")
	parts := strings.SplitN(rest, "/", 2)
	if parts[0] == "" {
		return "", "", fmt.Errorf("invalid s3 location")
	}
	if bucket != "" && parts[0] != bucket {
		return "", "", fmt.Errorf("s3 bucket mismatch")
	}
	if len(parts) == 1 || strings.TrimPrefix(parts[1], "/") == "" {
		return "", "", fmt.Errorf("s3 key missing")
	}
	return parts[0], strings.TrimPrefix(parts[1], "/"), nil
}

// JoinKey joins key segments with "/", dropping empty ones.
func JoinKey(segments ...string) string {
	var parts []string
	for _, s := range segments {
		s = strings.Trim(s, "/")
		if s != "" {
			parts = append(parts, s)
		}
	}
	return path.Join(parts...)
}
