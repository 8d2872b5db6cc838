package tnetstring_test

import (
	"math"
	"testing"

	"github.com/nmandery/tnetstring"
)

func TestFromJSONPreservesOrderAndTypes(t *testing.T) {
	raw := []byte(`{"z": 1, "a": [true, null, 1.0, "x"], "huge": 99999999999999999999}`)
	got, err := tnetstring.FromJSON(raw)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	want := tnetstring.NewMap(
		tnetstring.MapEntry{Key: "z", Value: tnetstring.Int(1)},
		tnetstring.MapEntry{Key: "a", Value: tnetstring.List{
			tnetstring.Bool(true), tnetstring.Null{}, tnetstring.Float(1), tnetstring.Bytes("x"),
		}},
		tnetstring.MapEntry{Key: "huge", Value: tnetstring.Float(1e20)},
	)
	if !tnetstring.Equal(got, want) {
		t.Fatalf("expected %#v, got %#v", want, got)
	}
}

func TestFromJSONErrors(t *testing.T) {
	cases := map[string]struct {
		raw  string
		code string
	}{
		"empty":         {``, tnetstring.ErrSourceSyntax},
		"trailing":      {`{} {}`, tnetstring.ErrSourceSyntax},
		"unterminated":  {`[1, 2`, tnetstring.ErrSourceSyntax},
		"duplicate_key": {`{"a": 1, "a": 2}`, tnetstring.ErrDuplicateKey},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := tnetstring.FromJSON([]byte(tc.raw))
			if code := tnetstring.ErrorCode(err); code != tc.code {
				t.Fatalf("expected %s, got %v", tc.code, err)
			}
		})
	}
}

func TestFromJSONDepthLimit(t *testing.T) {
	raw := make([]byte, 0, 2*(tnetstring.DefaultMaxDepth+1))
	for i := 0; i <= tnetstring.DefaultMaxDepth; i++ {
		raw = append(raw, '[')
	}
	for i := 0; i <= tnetstring.DefaultMaxDepth; i++ {
		raw = append(raw, ']')
	}
	_, err := tnetstring.FromJSON(raw)
	if code := tnetstring.ErrorCode(err); code != tnetstring.ErrDepthExceeded {
		t.Fatalf("expected %s, got %v", tnetstring.ErrDepthExceeded, err)
	}
}

func TestToJSON(t *testing.T) {
	v := tnetstring.NewMap(
		tnetstring.MapEntry{Key: "pets", Value: tnetstring.List{tnetstring.Bytes("cat"), tnetstring.Bytes("dog")}},
		tnetstring.MapEntry{Key: "pi", Value: tnetstring.Float(3.5)},
		tnetstring.MapEntry{Key: "n", Value: tnetstring.Int(-1)},
		tnetstring.MapEntry{Key: "ok", Value: tnetstring.Bool(true)},
		tnetstring.MapEntry{Key: "none", Value: tnetstring.Null{}},
		tnetstring.MapEntry{Key: "q", Value: tnetstring.Bytes(`say "hi"`)},
	)
	out, err := tnetstring.ToJSON(v)
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	want := `{"pets":["cat","dog"],"pi":3.5,"n":-1,"ok":true,"none":null,"q":"say \"hi\""}`
	if string(out) != want {
		t.Fatalf("expected %s, got %s", want, out)
	}

	back, err := tnetstring.FromJSON(out)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if !tnetstring.Equal(back, v) {
		t.Fatalf("JSON round trip mismatch: %#v", back)
	}
}

func TestToJSONRejectsNonFinite(t *testing.T) {
	_, err := tnetstring.ToJSON(tnetstring.List{tnetstring.Float(math.NaN())})
	if code := tnetstring.ErrorCode(err); code != tnetstring.ErrUnsupportedType {
		t.Fatalf("expected %s, got %v", tnetstring.ErrUnsupportedType, err)
	}
}
