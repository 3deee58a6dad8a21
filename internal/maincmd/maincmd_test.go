package maincmd_test

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/mna/mainer"

	"github.com/mna/ember/internal/filetest"
	"github.com/mna/ember/internal/maincmd"
)

// TestTokenize drives the tokenize command's output through
// internal/filetest's golden-file comparison, the same mechanism (and
// testdata/in + testdata/out layout) the teacher's own
// lang/scanner/scanner_test.go uses against its tokenize command.
var testUpdateTokenizeTests = flag.Bool("test.update-tokenize-tests", false, "If set, replace expected tokenize test results with actual results.")

func TestTokenize(t *testing.T) {
	ctx := context.Background()
	srcDir, resultDir := filepath.Join("testdata", "in"), filepath.Join("testdata", "out")

	for _, fi := range filetest.SourceFiles(t, srcDir, ".ember") {
		t.Run(fi.Name(), func(t *testing.T) {
			var buf, ebuf bytes.Buffer
			stdio := mainer.Stdio{Stdout: &buf, Stderr: &ebuf}

			var c maincmd.Cmd
			_ = c.Tokenize(ctx, stdio, []string{filepath.Join(srcDir, fi.Name())})
			filetest.DiffOutput(t, fi, buf.String(), resultDir, testUpdateTokenizeTests)
			filetest.DiffErrors(t, fi, ebuf.String(), resultDir, testUpdateTokenizeTests)
		})
	}
}

// TestRunPrintsThroughStdio confirms that script-level print/println
// output is captured on mainer.Stdio's writer instead of the process's
// real stdout, exercising the internal/builtins <-> lang/machine wiring
// directly rather than just a golden-file diff.
func TestRunPrintsThroughStdio(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hello.ember")
	if err := os.WriteFile(path, []byte("println(1 + 2);\n"), 0600); err != nil {
		t.Fatal(err)
	}

	var buf, ebuf bytes.Buffer
	stdio := mainer.Stdio{Stdout: &buf, Stderr: &ebuf}

	var c maincmd.Cmd
	if err := c.Run(context.Background(), stdio, []string{path}); err != nil {
		t.Fatalf("run: %v (stderr: %s)", err, ebuf.String())
	}
	if got, want := buf.String(), "3\n"; got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}
}
