package tnetstring

import (
	"crypto/sha256"
	"encoding/hex"
)

// DigestPrefix tags digests produced by this package.
const DigestPrefix = "tns1:"

// Digest returns a content identifier for v:
//
//	"tns1:" + hex_lower(sha256(Encode(v)))
//
// Map entries hash in insertion order, so two maps with the same entries
// in a different order have different digests.
func Digest(v Value) (string, error) {
	frame, err := Encode(v)
	if err != nil {
		return "", err
	}
	return DigestPrefix + sha256hex(frame), nil
}

// DigestFrame validates that buf is exactly one frame and hashes buf as
// given, without re-encoding.  The result matches Digest only for frames
// this package would produce byte for byte.
func DigestFrame(buf []byte) (string, error) {
	if err := Validate(buf); err != nil {
		return "", err
	}
	return DigestPrefix + sha256hex(buf), nil
}

// Validate checks that buf holds exactly one well-formed frame.  Unlike
// DecodeOne, trailing bytes are an error.
func Validate(buf []byte) error {
	_, end, err := Decode(buf, 0)
	if err != nil {
		return err
	}
	if end != len(buf) {
		return decodeErr(ErrTrailingBytes, end, "trailing bytes after frame")
	}
	return nil
}

func sha256hex(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
