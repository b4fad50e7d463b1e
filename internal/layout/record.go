// Package layout turns a flat set of file and folder records into sized,
// depth-ordered paint layers for stacked-band disk usage views.
//
// The package is pure: every function works over an immutable snapshot of
// records and performs no I/O. Only Navigator holds mutable state.
package layout

import (
	"fmt"
	"strings"
)

// ID identifies a record. It is opaque to this package.
type ID string

// Kind is the record variant.
type Kind int

const (
	Folder Kind = iota
	Document
)

func (k Kind) String() string {
	switch k {
	case Folder:
		return "Folder"
	case Document:
		return "Document"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind accepts the record kind names used by snapshot files.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "folder", "dir", "directory":
		return Folder, nil
	case "document", "file":
		return Document, nil
	}
	return 0, fmt.Errorf("unknown record kind %q", s)
}

// Record is one input row. The root record is its own parent.
// Size is only meaningful for documents; folder sizes come from aggregation.
type Record struct {
	ID       ID
	ParentID ID
	Name     string
	Kind     Kind
	Size     int64
}

func (r Record) IsFolder() bool { return r.Kind == Folder }

func (r Record) isRoot() bool { return r.ID == r.ParentID }
