package models

import (
	"strings"
	"time"

	"beacon/internal/vpath"
)

// Kind is the domain-specific classification of a folder or file row.
// It is a closed enumeration and is always part of lookup predicates,
// together with the path hash, to prevent cross-kind collisions.
type Kind string

const (
	KindDashboard Kind = "dashboard"
	KindAlert     Kind = "alert"
	KindReport    Kind = "report"
)

// IsValid reports whether k is a known kind.
func (k Kind) IsValid() bool {
	switch k {
	case KindDashboard, KindAlert, KindReport:
		return true
	}
	return false
}

// Folder is a row of the folder table. A row with a non-nil ContentSHA is a
// file; a row with a nil ContentSHA is a pure folder. That is the sole
// discriminator between the two.
type Folder struct {
	ID             string
	Name           string
	Kind           Kind
	Path           string
	PathHash       string
	ParentPathHash string
	ContentSHA     *string // nil = folder, non-nil = file
	CreatedBy      string
	CreatedAt      time.Time
	UpdatedBy      string
	UpdatedAt      time.Time

	// Joined in at read time, not stored on the folder row
	LastVisitedAt *time.Time
	FavoritedAt   *time.Time
	Slug          string
}

// IsFile reports whether the row carries a content reference.
func (f *Folder) IsFile() bool {
	return f.ContentSHA != nil
}

// SetPath updates the denormalized path together with both hashes. The two
// hashes must never be recomputed independently of the path.
func (f *Folder) SetPath(p *vpath.Path) {
	f.Path = p.String()
	f.PathHash = p.Hash()
	f.ParentPathHash = p.ParentHash()
	f.Name = p.Leaf()
	f.Slug = Slugify(p.Leaf())
}

// Equal reports whether two rows denote the same entity. Identity is the
// path string, not the surrogate id.
func (f *Folder) Equal(other *Folder) bool {
	return other != nil && f.Path == other.Path
}

// Slugify derives a URL-friendly slug from a display name.
func Slugify(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_' || r == '.':
			b.WriteByte('-')
		}
	}
	return strings.Trim(b.String(), "-")
}
