package build

import "errors"

// ErrDestinationNotEmpty is returned when the destination already holds
// files and the request does not allow overwriting them.
var ErrDestinationNotEmpty = errors.New("destination is not empty")
