package layout

import "github.com/cockroachdb/errors"

// Data integrity and query errors. Returned errors wrap one of these with the
// offending id; match them with errors.Is.
var (
	ErrNoRoot         = errors.New("no self-parented root record")
	ErrMultipleRoots  = errors.New("more than one self-parented root record")
	ErrDanglingParent = errors.New("parent record not found")
	ErrDuplicateID    = errors.New("duplicate record id")
	ErrCycle          = errors.New("parent chain does not reach the root")
	ErrNegativeSize   = errors.New("negative document size")
	ErrUnknownID      = errors.New("unknown record id")
	ErrNotAFolder     = errors.New("not a folder")
)
