package models

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Content is an immutable, content-addressable blob. The SHA is derived from
// the data, so identical payloads collapse onto one row.
type Content struct {
	SHA       string
	Data      []byte
	CreatedBy string
	CreatedAt time.Time
}

// NewContent builds a Content row for the given payload, computing its digest.
func NewContent(data []byte, createdBy string, now time.Time) *Content {
	return &Content{
		SHA:       ContentDigest(data),
		Data:      data,
		CreatedBy: createdBy,
		CreatedAt: now,
	}
}

// ContentDigest returns the SHA-256 hex digest used as the content key.
func ContentDigest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
