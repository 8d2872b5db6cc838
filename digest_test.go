package tnetstring_test

import (
	"strings"
	"testing"

	"github.com/nmandery/tnetstring"
)

func TestDigestDeterministic(t *testing.T) {
	m := tnetstring.NewMap(
		tnetstring.MapEntry{Key: "action", Value: tnetstring.Bytes("deploy")},
		tnetstring.MapEntry{Key: "target", Value: tnetstring.Bytes("prod")},
	)
	d1, err := tnetstring.Digest(m)
	if err != nil {
		t.Fatalf("Digest: %v", err)
	}
	d2, err := tnetstring.Digest(m)
	if err != nil {
		t.Fatalf("Digest: %v", err)
	}
	if d1 != d2 {
		t.Errorf("digest not deterministic: %s vs %s", d1, d2)
	}
	if !strings.HasPrefix(d1, tnetstring.DigestPrefix) || len(d1) != len(tnetstring.DigestPrefix)+64 {
		t.Errorf("unexpected digest shape: %s", d1)
	}
}

func TestDigestDistinguishesTypes(t *testing.T) {
	pairs := [][2]tnetstring.Value{
		{tnetstring.Bool(true), tnetstring.Bytes("true")},
		{tnetstring.Int(42), tnetstring.Bytes("42")},
		{tnetstring.Int(1), tnetstring.Float(1)},
		{tnetstring.List{}, tnetstring.EmptyMap()},
	}
	for _, p := range pairs {
		a, _ := tnetstring.Digest(p[0])
		b, _ := tnetstring.Digest(p[1])
		if a == b {
			t.Errorf("%#v and %#v should have different digests", p[0], p[1])
		}
	}
}

func TestDigestFrameMatchesDigest(t *testing.T) {
	m := tnetstring.NewMap(
		tnetstring.MapEntry{Key: "a", Value: tnetstring.Bytes("1")},
		tnetstring.MapEntry{Key: "b", Value: tnetstring.Bool(true)},
		tnetstring.MapEntry{Key: "c", Value: tnetstring.Int(42)},
	)
	frame, err := tnetstring.Encode(m)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	d1, err := tnetstring.Digest(m)
	if err != nil {
		t.Fatalf("Digest: %v", err)
	}
	d2, err := tnetstring.DigestFrame(frame)
	if err != nil {
		t.Fatalf("DigestFrame: %v", err)
	}
	if d1 != d2 {
		t.Errorf("digest mismatch: %s vs %s", d1, d2)
	}
}

func TestValidateRejectsTrailingBytes(t *testing.T) {
	if err := tnetstring.Validate([]byte("0:~")); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	err := tnetstring.Validate([]byte("0:~x"))
	if code := tnetstring.ErrorCode(err); code != tnetstring.ErrTrailingBytes {
		t.Fatalf("expected %s, got %v", tnetstring.ErrTrailingBytes, err)
	}
	if _, err := tnetstring.DigestFrame([]byte("0:~x")); err == nil {
		t.Fatal("DigestFrame should reject trailing bytes")
	}
}
