package shared

import "fmt"

var (
	ErrReadOnly        = fmt.Errorf("bookmarks are read-only")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
