package broadcast

import "errors"

// ErrClosed is returned when broadcasting on a closed broadcaster.
var ErrClosed = errors.New("broadcast: broadcaster is closed")
