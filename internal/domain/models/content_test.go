package models

import (
	"testing"
	"time"
)

func TestContentDigest(t *testing.T) {
	// Fixed vector: the digest must be stable across processes and platforms
	if got := ContentDigest([]byte("hello world")); got != "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9" {
		t.Errorf("ContentDigest = %q", got)
	}

	if ContentDigest([]byte("a")) == ContentDigest([]byte("b")) {
		t.Error("different payloads should digest differently")
	}
	if ContentDigest([]byte("a")) != ContentDigest([]byte("a")) {
		t.Error("digest should be deterministic")
	}
}

func TestNewContent(t *testing.T) {
	now := time.Now()
	c := NewContent([]byte("payload"), "alice", now)

	if c.SHA != ContentDigest([]byte("payload")) {
		t.Error("SHA should be the digest of the data")
	}
	if string(c.Data) != "payload" {
		t.Errorf("Data = %q", c.Data)
	}
	if c.CreatedBy != "alice" || !c.CreatedAt.Equal(now) {
		t.Error("audit fields should carry through")
	}
}
