package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/danmuck/cbdecode/internal/envelope"
	"github.com/danmuck/cbdecode/internal/payload"
	"github.com/danmuck/cbdecode/internal/testutil/testlog"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func wrap(version uint64, body []byte) []byte {
	b := protowire.AppendTag(nil, protowire.Number(envelope.FieldVersion), protowire.VarintType)
	b = protowire.AppendVarint(b, version)
	b = protowire.AppendTag(b, protowire.Number(envelope.FieldPayload), protowire.BytesType)
	return protowire.AppendBytes(b, body)
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRunBinaryCompact(t *testing.T) {
	testlog.Start(t)
	path := writeFile(t, "latest.circlebox", []byte{0x08, 0x01, 0x12, 0x07, 0x7B, 0x22, 0x61, 0x22, 0x3A, 0x31, 0x7D})

	code, stdout, stderr := runCLI(t, "--compact", path)
	if code != exitOK {
		t.Fatalf("expected exit 0, got %d (stderr=%q)", code, stderr)
	}
	if stdout != "{\"a\":1}\n" {
		t.Fatalf("unexpected stdout: %q", stdout)
	}
}

func TestRunLegacyPrettyDefault(t *testing.T) {
	testlog.Start(t)
	path := writeFile(t, "legacy.json", []byte(`{"z":[1,2],"a":{"k":"v"}}`))

	code, stdout, stderr := runCLI(t, path)
	if code != exitOK {
		t.Fatalf("expected exit 0, got %d (stderr=%q)", code, stderr)
	}
	want := "{\n  \"a\": {\n    \"k\": \"v\"\n  },\n  \"z\": [\n    1,\n    2\n  ]\n}\n"
	if stdout != want {
		t.Fatalf("expected %q, got %q", want, stdout)
	}
}

func TestRunIndentFlag(t *testing.T) {
	testlog.Start(t)
	path := writeFile(t, "latest.circlebox", wrap(1, []byte(`{"a":1}`)))

	code, stdout, _ := runCLI(t, "--indent", "4", path)
	if code != exitOK {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if stdout != "{\n    \"a\": 1\n}\n" {
		t.Fatalf("unexpected stdout: %q", stdout)
	}
}

func TestRunConfigDefaultsAndFlagOverride(t *testing.T) {
	testlog.Start(t)
	cfgPath := writeFile(t, "cbdecode.toml", []byte("output = \"compact\"\n"))
	path := writeFile(t, "latest.circlebox", wrap(1, []byte(`{"b":1,"a":2}`)))

	code, stdout, _ := runCLI(t, "--config", cfgPath, path)
	if code != exitOK || stdout != "{\"b\":1,\"a\":2}\n" {
		t.Fatalf("expected compact output from config, got %d %q", code, stdout)
	}

	code, stdout, _ = runCLI(t, "--config", cfgPath, "--pretty", path)
	if code != exitOK || stdout != "{\n  \"a\": 2,\n  \"b\": 1\n}\n" {
		t.Fatalf("expected pretty output from flag, got %d %q", code, stdout)
	}
}

func TestRunFailures(t *testing.T) {
	testlog.Start(t)
	dir := t.TempDir()
	cases := []struct {
		name   string
		data   []byte
		stderr string
	}{
		{"empty", []byte{}, "Decode failed: envelope: empty file"},
		{"no-payload", []byte{0x08, 0x01}, "Decode failed: envelope: no payload field found"},
		{"overflow", []byte{0x12, 0x09, '{', '}'}, "Decode failed: envelope: field exceeds payload length"},
		{"bad-varint", []byte{0x08, 0x80}, "Decode failed: envelope: invalid varint"},
		{"bad-utf8", wrap(1, []byte{'"', 0xff, '"'}), "Decode failed: payload: utf-8 decode failed"},
		{"bad-json", []byte(`{"a":`), "Decode failed: payload: json parse failed"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(dir, tc.name)
			if err := os.WriteFile(path, tc.data, 0o644); err != nil {
				t.Fatalf("write: %v", err)
			}
			code, stdout, stderr := runCLI(t, path)
			if code != exitFail {
				t.Fatalf("expected exit 1, got %d", code)
			}
			if stdout != "" {
				t.Fatalf("expected no stdout on failure, got %q", stdout)
			}
			if !strings.HasPrefix(stderr, tc.stderr) {
				t.Fatalf("expected stderr prefix %q, got %q", tc.stderr, stderr)
			}
			if strings.Count(stderr, "\n") != 1 {
				t.Fatalf("expected a single diagnostic line, got %q", stderr)
			}
		})
	}
}

func TestRunMissingFile(t *testing.T) {
	testlog.Start(t)
	path := filepath.Join(t.TempDir(), "missing.circlebox")
	code, stdout, stderr := runCLI(t, path)
	if code != exitFail {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if stdout != "" {
		t.Fatalf("unexpected stdout: %q", stdout)
	}
	if stderr != "File not found: "+path+"\n" {
		t.Fatalf("unexpected stderr: %q", stderr)
	}
}

func TestRunUsageErrors(t *testing.T) {
	testlog.Start(t)
	path := writeFile(t, "legacy.json", []byte(`{}`))
	cases := [][]string{
		{},
		{path, path},
		{"--compact", "--pretty", path},
		{"--bogus", path},
		{"--indent", "0", path},
	}
	for _, args := range cases {
		code, stdout, _ := runCLI(t, args...)
		if code == exitOK {
			t.Fatalf("expected failure for %v", args)
		}
		if stdout != "" {
			t.Fatalf("unexpected stdout for %v: %q", args, stdout)
		}
	}
}

func TestRunHelp(t *testing.T) {
	testlog.Start(t)
	code, stdout, _ := runCLI(t, "--help")
	if code != exitOK {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if !strings.Contains(stdout, "--compact") || !strings.Contains(stdout, "--fields") {
		t.Fatalf("help missing flags: %q", stdout)
	}
}

func TestRunFields(t *testing.T) {
	testlog.Start(t)
	data := wrap(1, []byte(`{"a":1}`))
	data = protowire.AppendTag(data, 4, protowire.Fixed32Type)
	data = protowire.AppendFixed32(data, 0xdeadbeef)
	path := writeFile(t, "latest.circlebox", data)

	code, stdout, stderr := runCLI(t, "--fields", path)
	if code != exitOK {
		t.Fatalf("expected exit 0, got %d (stderr=%q)", code, stderr)
	}
	for _, want := range []string{"format=binary bytes=16", "FIELD", "varint", `"{\"a\":1}"`, "fixed32", "0xdeadbeef"} {
		if !strings.Contains(stdout, want) {
			t.Fatalf("expected %q in output:\n%s", want, stdout)
		}
	}
}

func TestRunFieldsLegacy(t *testing.T) {
	testlog.Start(t)
	path := writeFile(t, "legacy.json", []byte(`{"a":1}`))
	code, stdout, _ := runCLI(t, "--fields", path)
	if code != exitOK || stdout != "format=legacy-json bytes=7\n" {
		t.Fatalf("unexpected result: %d %q", code, stdout)
	}
}

func TestDecodeRoundTripStructuralEquality(t *testing.T) {
	testlog.Start(t)
	docs := []string{
		`{"schema_version":2,"session_id":"s-1","events":[{"seq":0,"type":"thermal_state","attrs":{"state":"serious"}}]}`,
		`{"a":{"b":[true,false,null,1e3,-0.25,"é"]}}`,
		`[]`,
		`"bare string"`,
	}
	for _, doc := range docs {
		want, err := payload.Materialize([]byte(doc))
		if err != nil {
			t.Fatalf("materialize source %q: %v", doc, err)
		}
		body, err := envelope.DecodePayload(wrap(42, []byte(doc)))
		if err != nil {
			t.Fatalf("decode %q: %v", doc, err)
		}
		got, err := payload.Materialize(body)
		if err != nil {
			t.Fatalf("materialize decoded %q: %v", doc, err)
		}
		if !payload.Equal(want, got) {
			t.Fatalf("round trip mismatch for %q", doc)
		}
	}
}
