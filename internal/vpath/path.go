package vpath

import (
	"crypto/md5"
	"encoding/hex"
	"strconv"
	"strings"

	"beacon/internal/domain"
)

// RootType is the top-level namespace of a virtual path.
type RootType string

const (
	RootUser      RootType = "user"
	RootNamespace RootType = "namespace"
)

// IsValid reports whether rt is a known root type.
func (rt RootType) IsValid() bool {
	return rt == RootUser || rt == RootNamespace
}

// Path is a parsed, normalized virtual path like "/user/alice/dashboards".
// The zero value is not usable; construct with New, ForUserID or ForNamespace.
type Path struct {
	raw        string
	rootType   RootType
	rootName   string
	leaf       string
	parentPath string
	isRoot     bool
}

// Normalize canonicalizes a path string: trimmed, lower-case, leading "/",
// no trailing "/". Normalize is idempotent.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "/") {
		s = "/" + s
	}
	for len(s) > 1 && strings.HasSuffix(s, "/") {
		s = strings.TrimSuffix(s, "/")
	}
	return strings.ToLower(s)
}

// New parses a path string into a Path. The string is normalized first.
// A path needs at least a root type and a root name ("/user/alice");
// anything shorter, or an unknown root type, is a validation error.
func New(s string) (*Path, error) {
	raw := Normalize(s)

	parts := strings.Split(raw, "/")
	// parts[0] is the empty segment before the leading slash
	if len(parts) < 3 {
		return nil, &domain.PathError{Path: s, Reason: "need a root type and a root name"}
	}
	for i, part := range parts[1:] {
		if part == "" {
			return nil, &domain.PathError{Path: s, Reason: "empty segment at position " + strconv.Itoa(i+1)}
		}
	}

	rootType := RootType(parts[1])
	if !rootType.IsValid() {
		return nil, &domain.PathError{Path: s, Reason: "unknown root type " + parts[1]}
	}

	leaf := parts[len(parts)-1]
	return &Path{
		raw:        raw,
		rootType:   rootType,
		rootName:   parts[2],
		leaf:       leaf,
		parentPath: raw[:len(raw)-len(leaf)-1],
		isRoot:     len(parts) == 3,
	}, nil
}

// ForUserID builds the canonical path for a user id. Dot-delimited ids are
// rewritten into path segments, so "alice.reports" becomes
// "/user/alice/reports". The "user/" prefix is added if absent.
func ForUserID(userID string) (*Path, error) {
	p := strings.ReplaceAll(userID, ".", "/")
	if !strings.HasPrefix(strings.ToLower(p), "user/") {
		p = "user/" + p
	}
	return New(p)
}

// ForNamespace builds the canonical path for a namespace.
func ForNamespace(name string) (*Path, error) {
	return New("/namespace/" + name)
}

// String returns the normalized path string.
func (p *Path) String() string { return p.raw }

// RootType returns the path's root type.
func (p *Path) RootType() RootType { return p.rootType }

// RootName returns the segment after the root type.
func (p *Path) RootName() string { return p.rootName }

// Leaf returns the final path segment.
func (p *Path) Leaf() string { return p.leaf }

// ParentPath returns everything up to (not including) the leaf segment.
func (p *Path) ParentPath() string { return p.parentPath }

// IsRoot reports whether the path is a root path (root type + root name only).
func (p *Path) IsRoot() bool { return p.isRoot }

// Hash returns the lookup digest of the path.
func (p *Path) Hash() string { return Hash(p.raw) }

// ParentHash returns the lookup digest of the parent path.
func (p *Path) ParentHash() string { return Hash(p.parentPath) }

// Hash digests a path string into its lookup key. The input is normalized
// first so equivalent spellings hash identically. MD5 is used purely as a
// stable indexed key, not for security.
func Hash(s string) string {
	sum := md5.Sum([]byte(Normalize(s)))
	return hex.EncodeToString(sum[:])
}

// IsSibling reports whether p and other share the same parent path.
func (p *Path) IsSibling(other *Path) bool {
	return p.parentPath == other.parentPath
}

// IsAncestor reports whether p is an ancestor of other: the two are not
// siblings and other's parent path begins with p's parent path.
func (p *Path) IsAncestor(other *Path) bool {
	if p.IsSibling(other) {
		return false
	}
	return strings.HasPrefix(other.parentPath, p.parentPath)
}

// SetLeaf renames the final segment, recomputing the full path. The new leaf
// must be a single non-empty segment. The caller is responsible for
// propagating the new path and hashes into any persisted row and, for
// folders, into all descendants.
func (p *Path) SetLeaf(newLeaf string) error {
	leaf := strings.ToLower(strings.TrimSpace(newLeaf))
	if leaf == "" {
		return &domain.PathError{Path: newLeaf, Reason: "leaf must not be empty"}
	}
	if strings.Contains(leaf, "/") {
		return &domain.PathError{Path: newLeaf, Reason: "leaf must be a single segment"}
	}
	p.raw = p.parentPath + "/" + leaf
	p.leaf = leaf
	return nil
}
