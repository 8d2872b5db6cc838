package main

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/nmandery/tnetstring"
)

var errPointerNotFound = errors.New("pointer not found")

func parseDocument(format string, raw []byte) (tnetstring.Value, error) {
	switch format {
	case "json":
		return tnetstring.FromJSON(raw)
	case "yaml":
		return tnetstring.FromYAML(raw)
	}
	return nil, fmt.Errorf("unsupported input format %q", format)
}

func renderDocument(format string, v tnetstring.Value) ([]byte, error) {
	switch format {
	case "json":
		out, err := tnetstring.ToJSON(v)
		if err != nil {
			return nil, err
		}
		return append(out, '\n'), nil
	case "yaml":
		return tnetstring.ToYAML(v)
	}
	return nil, fmt.Errorf("unsupported output format %q", format)
}

// encodeDocument turns one JSON/YAML document into a frame.
func encodeDocument(cfg config, raw []byte) ([]byte, error) {
	v, err := parseDocument(cfg.InputFormat, raw)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", cfg.InputFormat, err)
	}
	return cfg.encoder().Encode(v)
}

// decodeFrames renders the frame at offset, or with all every frame from
// offset to the end of input.  Trailing newlines are ignored in all mode.
func decodeFrames(cfg config, raw []byte, offset int, all bool) ([]byte, error) {
	dec := cfg.decoder()
	if !all {
		v, _, err := dec.Decode(raw, offset)
		if err != nil {
			return nil, err
		}
		return renderDocument(cfg.OutputFormat, v)
	}

	if offset < 0 || offset > len(raw) {
		return nil, fmt.Errorf("offset %d outside input of %d bytes", offset, len(raw))
	}
	// Error offsets from DecodeAll are relative to offset.
	values, err := dec.DecodeAll(bytes.TrimRight(raw[offset:], "\r\n"))
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	for n, v := range values {
		doc, err := renderDocument(cfg.OutputFormat, v)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", n, err)
		}
		if cfg.OutputFormat == "yaml" && n > 0 {
			out.WriteString("---\n")
		}
		out.Write(doc)
	}
	return out.Bytes(), nil
}

// lookupFrame decodes the frame at offset and renders the value addressed
// by a single pointer, or the projection of several pointers.
func lookupFrame(cfg config, raw []byte, offset int, pointers []string) ([]byte, error) {
	v, _, err := cfg.decoder().Decode(raw, offset)
	if err != nil {
		return nil, err
	}
	if len(pointers) > 1 {
		projected, err := tnetstring.Project(v, pointers)
		if err != nil {
			return nil, err
		}
		return renderDocument(cfg.OutputFormat, projected)
	}

	pointer := ""
	if len(pointers) == 1 {
		pointer = pointers[0]
	}
	hit, found, err := tnetstring.Lookup(v, pointer)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: %q", errPointerNotFound, pointer)
	}
	return renderDocument(cfg.OutputFormat, hit)
}

func digestFrame(raw []byte) ([]byte, error) {
	d, err := tnetstring.DigestFrame(bytes.TrimRight(raw, "\r\n"))
	if err != nil {
		return nil, err
	}
	return []byte(d + "\n"), nil
}
