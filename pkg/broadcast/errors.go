package broadcast

import "errors"

// ErrObserverClosed is returned when sending to an observer that is gone.
var ErrObserverClosed = errors.New("broadcast: observer closed")
