package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCLI(t *testing.T, stdin []byte, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, bytes.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func writeInput(t *testing.T, dir string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, "input.txt")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	return path
}

func TestRun_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	input := []byte(strings.Repeat("it was the best of times, it was the worst of times\n", 200))
	inPath := writeInput(t, dir, input)
	packedPath := filepath.Join(dir, "input.huff")
	outPath := filepath.Join(dir, "output.txt")

	code, _, stderr := runCLI(t, nil, "-stats", "compress", inPath, packedPath)
	if code != exitOK {
		t.Fatalf("compress: exit %d, stderr:\n%s", code, stderr)
	}
	if !strings.Contains(stderr, "[compress]") || !strings.Contains(stderr, "symbols") {
		t.Errorf("expected stats on stderr, got:\n%s", stderr)
	}

	packed, err := os.ReadFile(packedPath)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if len(packed) >= len(input) {
		t.Errorf("expected compression: %d bytes in, %d bytes out", len(input), len(packed))
	}

	code, _, stderr = runCLI(t, nil, "decompress", packedPath, outPath)
	if code != exitOK {
		t.Fatalf("decompress: exit %d, stderr:\n%s", code, stderr)
	}
	output, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !bytes.Equal(input, output) {
		t.Errorf("round trip failed: %d bytes in, %d bytes out", len(input), len(output))
	}
}

func TestRun_Pipes(t *testing.T) {
	input := []byte("AAAAABBBCCD")

	code, packed, stderr := runCLI(t, input, "compress", "-", "-")
	if code != exitOK {
		t.Fatalf("compress: exit %d, stderr:\n%s", code, stderr)
	}
	expect := "\x04A\x05\x00\x00\x00B\x03\x00\x00\x00C\x02\x00\x00\x00D\x01\x00\x00\x00\x05\x5f\xe0"
	if packed != expect {
		t.Errorf("wrong output:\n\texpect: %q\n\tactual: %q", expect, packed)
	}

	code, output, stderr := runCLI(t, []byte(packed), "decompress", "-", "-")
	if code != exitOK {
		t.Fatalf("decompress: exit %d, stderr:\n%s", code, stderr)
	}
	if output != string(input) {
		t.Errorf("round trip failed: got %q", output)
	}
}

func TestRun_Dumps(t *testing.T) {
	code, _, stderr := runCLI(t, []byte("AAAAABBBCCD"), "-dump-tree", "-dump-codes", "compress", "-", "-")
	if code != exitOK {
		t.Fatalf("compress: exit %d, stderr:\n%s", code, stderr)
	}
	for _, want := range []string{"FrequencyTable{", "CodeTable{", "Tree{", "\tLevel(3) = 'D':1 'C':2\n", "\tCode(68 'D') = \"110\"\n"} {
		if !strings.Contains(stderr, want) {
			t.Errorf("expected %q in stderr:\n%s", want, stderr)
		}
	}
}

func TestRun_Failures(t *testing.T) {
	dir := t.TempDir()
	inPath := writeInput(t, dir, []byte("hello"))
	existing := filepath.Join(dir, "existing")
	if err := os.WriteFile(existing, []byte("keep me"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	corrupt := filepath.Join(dir, "corrupt.huff")
	if err := os.WriteFile(corrupt, []byte{2, 'a', 1, 0, 0, 0, 'b', 1, 0, 0, 0}, 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	packed := filepath.Join(dir, "packed.huff")
	if err := os.WriteFile(packed, []byte{1, 'a', 4, 0, 0, 0, 0}, 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	empty := filepath.Join(dir, "empty")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	type testRow struct {
		name   string
		args   []string
		expect int
	}

	testData := [...]testRow{
		{"no-args", nil, exitUsage},
		{"bad-op", []string{"squash", inPath, filepath.Join(dir, "x")}, exitUsage},
		{"bad-flag", []string{"-bogus", "compress", inPath, filepath.Join(dir, "x")}, exitUsage},
		{"missing-input", []string{"compress", filepath.Join(dir, "nope"), filepath.Join(dir, "x")}, exitFailure},
		{"exists", []string{"compress", inPath, existing}, exitFailure},
		{"empty-input", []string{"compress", empty, filepath.Join(dir, "empty.huff")}, exitFailure},
		{"corrupt", []string{"decompress", corrupt, filepath.Join(dir, "corrupt.out")}, exitFailure},
		{"compress-in-place", []string{"-force", "compress", inPath, inPath}, exitFailure},
		{"compress-in-place-alias", []string{"-force", "compress", inPath, dir + string(filepath.Separator) + "." + string(filepath.Separator) + "input.txt"}, exitFailure},
		{"decompress-in-place", []string{"-force", "decompress", packed, packed}, exitFailure},
	}
	for _, row := range testData {
		t.Run(row.name, func(t *testing.T) {
			code, _, stderr := runCLI(t, nil, row.args...)
			if code != row.expect {
				t.Errorf("expected exit %d, got %d, stderr:\n%s", row.expect, code, stderr)
			}
		})
	}

	if data, _ := os.ReadFile(inPath); string(data) != "hello" {
		t.Errorf("input was clobbered by an in-place run: %q", data)
	}
	if data, _ := os.ReadFile(packed); !bytes.Equal(data, []byte{1, 'a', 4, 0, 0, 0, 0}) {
		t.Errorf("compressed input was clobbered by an in-place run: %q", data)
	}
	if data, _ := os.ReadFile(existing); string(data) != "keep me" {
		t.Errorf("existing output was overwritten: %q", data)
	}
	for _, name := range []string{"corrupt.out", "empty.huff"} {
		if _, err := os.Stat(filepath.Join(dir, name)); !os.IsNotExist(err) {
			t.Errorf("expected failed output %s to be removed, got %v", name, err)
		}
	}

	code, _, stderr := runCLI(t, nil, "-force", "compress", inPath, existing)
	if code != exitOK {
		t.Errorf("-force: expected exit 0, got %d, stderr:\n%s", code, stderr)
	}
}

func TestRun_Version(t *testing.T) {
	code, stdout, _ := runCLI(t, nil, "-version")
	if code != exitOK || stdout != "huffcodec "+version+"\n" {
		t.Errorf("unexpected version output: %d %q", code, stdout)
	}

	code, stdout, _ = runCLI(t, nil, "-example-config")
	if code != exitOK || !strings.Contains(stdout, "buffer_size = 65536") {
		t.Errorf("unexpected example config: %d %q", code, stdout)
	}
}

func TestRun_VersionNotFromEnvironment(t *testing.T) {
	for _, key := range []string{"HUFFCODEC_VERSION", "HUFFCODEC_EXAMPLE_CONFIG"} {
		os.Setenv(key, "true")
		defer os.Unsetenv(key)
	}

	code, packed, stderr := runCLI(t, []byte("AAAAABBBCCD"), "compress", "-", "-")
	if code != exitOK {
		t.Fatalf("compress: exit %d, stderr:\n%s", code, stderr)
	}
	if strings.HasPrefix(packed, "huffcodec ") || !strings.HasPrefix(packed, "\x04A") {
		t.Errorf("expected compressed output, got %q", packed)
	}
}
