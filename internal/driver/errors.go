package driver

import "errors"

// ErrVerifyMismatch is returned when the --verify in-memory roundtrip does
// not reproduce the original input byte-for-byte.
var ErrVerifyMismatch = errors.New("driver: verify roundtrip mismatch")

// ErrBlockNotConsumed is returned when a block's decoder stops before it has
// consumed its entire compressed slice, which the container's length table
// guarantees should never happen for a container this package produced.
var ErrBlockNotConsumed = errors.New("driver: block decoder did not consume its compressed slice")
