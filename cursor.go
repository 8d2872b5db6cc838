package tnetstring

import "bytes"

// frameBounds is one located frame: payload window [plStart, plStart+plSize)
// followed by the tag byte.
type frameBounds struct {
	start   int
	plStart int
	plSize  int
	tag     byte
}

// next is the first index after the frame's tag.
func (f frameBounds) next() int {
	return f.plStart + f.plSize + 1
}

func (f frameBounds) payload(buf []byte) []byte {
	return buf[f.plStart : f.plStart+f.plSize]
}

// locateFrame finds the frame beginning at start whose tag must sit at or
// before the inclusive bound end.  It never reads past end.
func locateFrame(buf []byte, start, end int) (frameBounds, error) {
	if len(buf) == 0 {
		return frameBounds{}, decodeErr(ErrEmptyInput, start, "empty input")
	}
	if start < 0 || start > end || end >= len(buf) {
		return frameBounds{}, decodeErr(ErrMalformedFrame, start, "frame bounds outside buffer")
	}

	rel := bytes.IndexByte(buf[start:end+1], sizeColon)
	if rel < 0 {
		return frameBounds{}, decodeErr(ErrMalformedFrame, start, "no size separator")
	}
	colon := start + rel

	size, err := parseSize(buf[start:colon])
	if err != nil {
		return frameBounds{}, decodeErr(ErrInvalidSize, start, err.Error())
	}

	plStart := colon + 1
	// Last payload index is colon+size; the tag needs one more byte.
	if colon+size >= end {
		return frameBounds{}, decodeErr(ErrTruncatedFrame, start, "payload runs past end of buffer")
	}

	return frameBounds{
		start:   start,
		plStart: plStart,
		plSize:  size,
		tag:     buf[plStart+size],
	}, nil
}

// parseSize reads a 1–9 digit ASCII size prefix.  Signs, spaces and
// underscores are all rejected.
func parseSize(digits []byte) (int, error) {
	if len(digits) == 0 {
		return 0, errSizeEmpty
	}
	if len(digits) > MaxSizeDigits {
		return 0, errSizeTooLong
	}
	n := 0
	for _, c := range digits {
		if c < '0' || c > '9' {
			return 0, errSizeNotDigit
		}
		n = n*10 + int(c-'0')
	}
	return n, nil
}

type sizeError string

func (e sizeError) Error() string { return string(e) }

const (
	errSizeEmpty    sizeError = "empty size prefix"
	errSizeTooLong  sizeError = "size prefix longer than 9 digits"
	errSizeNotDigit sizeError = "non-digit in size prefix"
)
