package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nmandery/tnetstring"
)

func noEnv(string) string { return "" }

func runCLI(t *testing.T, stdin string, args ...string) (string, string, int) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(stdin), &stdout, &stderr, noEnv)
	return stdout.String(), stderr.String(), code
}

func TestEncodeJSON(t *testing.T) {
	out, errOut, code := runCLI(t, `{"pets": ["cat", "dog"]}`, "encode")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if out != "23:4:pets,12:3:cat,3:dog,]}" {
		t.Fatalf("unexpected frame: %q", out)
	}
}

func TestEncodeYAML(t *testing.T) {
	out, errOut, code := runCLI(t, "n: 1\nok: true\n", "encode", "-from", "yaml")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if out != "20:1:n,1:1#2:ok,4:true!}" {
		t.Fatalf("unexpected frame: %q", out)
	}
}

func TestDecodeIgnoresTrailingNoise(t *testing.T) {
	out, errOut, code := runCLI(t, "23:4:pets,12:3:cat,3:dog,]}Ignore this !!!", "decode")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if out != "{\"pets\":[\"cat\",\"dog\"]}\n" {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestDecodeAllAsYAML(t *testing.T) {
	out, errOut, code := runCLI(t, "2:42#5:hello,\n", "decode", "-all", "-to", "yaml")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if out != "42\n---\nhello\n" {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestDecodeOffset(t *testing.T) {
	out, errOut, code := runCLI(t, "0:~2:42#", "decode", "-offset", "3")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if out != "42\n" {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestDecodeErrorReportsCode(t *testing.T) {
	_, errOut, code := runCLI(t, "3:abc#", "decode")
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.Contains(errOut, tnetstring.ErrNumericParse) {
		t.Fatalf("stderr should name the error code: %q", errOut)
	}
}

func TestGetPointer(t *testing.T) {
	out, errOut, code := runCLI(t, "23:4:pets,12:3:cat,3:dog,]}", "get", "-pointer", "/pets/1")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if out != "\"dog\"\n" {
		t.Fatalf("unexpected output: %q", out)
	}

	_, _, code = runCLI(t, "23:4:pets,12:3:cat,3:dog,]}", "get", "-pointer", "/cats")
	if code != 1 {
		t.Fatalf("expected exit 1 for a missing pointer, got %d", code)
	}
}

func TestGetProjectsSeveralPointers(t *testing.T) {
	frame := "46:4:name,3:rex,4:pets,12:3:cat,3:dog,]3:age,1:3#}"
	out, errOut, code := runCLI(t, frame, "get", "-pointer", "/pets/1", "-pointer", "/name")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if out != "{\"name\":\"rex\",\"pets\":[\"dog\"]}\n" {
		t.Fatalf("unexpected output: %q", out)
	}

	_, errOut, code = runCLI(t, frame, "get", "-pointer", "/name", "-pointer", "/owner")
	if code != 1 {
		t.Fatalf("expected exit 1 for a partial match, got %d", code)
	}
	if !strings.Contains(errOut, tnetstring.ErrPointerMismatch) {
		t.Fatalf("stderr should name the error code: %q", errOut)
	}
}

func TestDecodeAllFromOffset(t *testing.T) {
	out, errOut, code := runCLI(t, "skip2:42#1:1#\r\n", "decode", "-all", "-offset", "4")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if out != "42\n1\n" {
		t.Fatalf("unexpected output: %q", out)
	}

	if _, _, code := runCLI(t, "2:42#junk", "decode", "-all"); code != 1 {
		t.Fatalf("expected exit 1 for trailing junk, got %d", code)
	}
	if _, _, code := runCLI(t, "2:42#", "decode", "-all", "-offset", "9"); code != 1 {
		t.Fatalf("expected exit 1 for an offset past the input, got %d", code)
	}
}

func TestDigest(t *testing.T) {
	out, errOut, code := runCLI(t, "0:~\n", "digest")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	want, err := tnetstring.Digest(tnetstring.Null{})
	if err != nil {
		t.Fatalf("digest: %v", err)
	}
	if out != want+"\n" {
		t.Fatalf("expected %q, got %q", want, out)
	}

	if _, _, code := runCLI(t, "0:~0:~", "digest"); code != 1 {
		t.Fatalf("expected exit 1 for trailing frame, got %d", code)
	}
}

func TestConfigFileAndFiles(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(cfgPath, []byte("output_format = \"yaml\"\nlog_level = \"off\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	inPath := filepath.Join(dir, "in.tns")
	if err := os.WriteFile(inPath, []byte("9:1:a,2:42#}"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	outPath := filepath.Join(dir, "out.yaml")

	_, errOut, code := runCLI(t, "", "decode", "-config", cfgPath, "-in", inPath, "-out", outPath)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	got, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(got) != "a: 42\n" {
		t.Fatalf("unexpected output: %q", got)
	}
}

func TestUsageErrors(t *testing.T) {
	if _, _, code := runCLI(t, ""); code != 2 {
		t.Fatalf("expected exit 2 without a subcommand, got %d", code)
	}
	if _, _, code := runCLI(t, "", "frobnicate"); code != 2 {
		t.Fatalf("expected exit 2 for an unknown subcommand, got %d", code)
	}
	if _, _, code := runCLI(t, "", "decode", "-to", "xml"); code != 2 {
		t.Fatalf("expected exit 2 for a bad format, got %d", code)
	}
}
