package block

import "errors"

var (
	ErrTruncatedHeader      = errors.New("block: truncated container header")
	ErrBadMagic             = errors.New("block: bad container magic")
	ErrTruncatedLengthTable = errors.New("block: truncated compressed-length table")
	ErrTruncatedPayload     = errors.New("block: truncated payload")
	ErrInputTooLarge        = errors.New("block: original size exceeds 4 GiB limit")
)
