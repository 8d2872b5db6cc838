package tnetstring

// FormatVersion names the tnetstring grammar implemented here
// (http://tnetstrings.org, 2011 revision).
const FormatVersion = "1"

// Wire type tags.  The tag is the single byte following a frame's payload.
const (
	tagNull   byte = '~'
	tagBool   byte = '!'
	tagInt    byte = '#'
	tagFloat  byte = '^'
	tagBytes  byte = ','
	tagList   byte = ']'
	tagMap    byte = '}'
	sizeColon byte = ':'
)

// Framing limits.  A size prefix is at most nine ASCII digits.
const (
	MaxSizeDigits  = 9
	MaxPayloadSize = 999_999_999
)

// DefaultMaxDepth bounds container nesting for encode, decode and the
// JSON/YAML bridges when no explicit limit is configured.
const DefaultMaxDepth = 64
