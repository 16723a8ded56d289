// ABOUTME: End-to-end tests running CLI commands against a temporary database
// ABOUTME: Covers import/export, lookup and chapter reading without an API key

package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testBundleYAML = `version: "1.0"
dimension: 3
books:
  - id: 1
    title: Sözler
    slug: sozler
    chapters:
      - id: 10
        title: Dördüncü Söz
        chapter_number: 4
        paragraphs:
          - Namaz hakkında.
          - İkinci paragraf.
        passages:
          - id: 100
            content: Namazın kıymeti.
            vector: [1, 0, 0]
dictionary:
  - word: kitap
    definition: book
  - word: ehl-i sünnet
    definition: people of the sunnah
`

// setupCLI points the CLI at a fresh database and writes the test bundle
func setupCLI(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("MUZAKIR_STORE", "sqlite")
	t.Setenv("MUZAKIR_DB_PATH", filepath.Join(dir, "muzakir.db"))
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("LOG_MODE", "dev")

	bundlePath := filepath.Join(dir, "bundle.yaml")
	if err := os.WriteFile(bundlePath, []byte(testBundleYAML), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return bundlePath
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var output bytes.Buffer
	cmd.SetOut(&output)
	cmd.SetErr(&output)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return output.String(), err
}

func TestImportAndLookup(t *testing.T) {
	bundle := setupCLI(t)

	out, err := runCLI(t, "import", bundle)
	if err != nil {
		t.Fatalf("import error = %v", err)
	}
	if !strings.Contains(out, "Imported 1 book(s), 1 chapter(s), 2 paragraph(s)") {
		t.Errorf("import output = %q", out)
	}

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"suffix stripped", []string{"lookup", "kitaplarımızdan"}, "book"},
		{"multi-word", []string{"lookup", "ehl-i", "sünnet"}, "people of the sunnah"},
		{"following text", []string{"lookup", "--following", "sünnet ve cemaat", "ehl-i"}, "people of the sunnah"},
		{"unknown", []string{"lookup", "xyzzy"}, "No definition found"},
		{"json", []string{"--format", "json", "lookup", "xyzzy"}, `"found": false`},
		{"verbose method", []string{"--verbose", "lookup", "kitap"}, "matched by exact"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCLI(t, tt.args...)
			if err != nil {
				t.Fatalf("%v error = %v", tt.args, err)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("%v output = %q, want it to contain %q", tt.args, out, tt.want)
			}
		})
	}
}

func TestChapterCmd(t *testing.T) {
	bundle := setupCLI(t)
	if _, err := runCLI(t, "import", bundle); err != nil {
		t.Fatalf("import error = %v", err)
	}

	for _, args := range [][]string{
		{"chapter", "--type", "söz", "4"},
		{"chapter", "4"},
		{"chapter", "dördüncü söz"},
		{"chapter", "--id", "10"},
	} {
		out, err := runCLI(t, args...)
		if err != nil {
			t.Fatalf("%v error = %v", args, err)
		}
		if !strings.Contains(out, "Namaz hakkında.\n\nİkinci paragraf.") || !strings.Contains(out, "Sözler — Dördüncü Söz") {
			t.Errorf("%v output = %q", args, out)
		}
	}

	out, err := runCLI(t, "chapter", "list", "sozler")
	if err != nil || !strings.Contains(out, "Dördüncü Söz") {
		t.Errorf("chapter list = %q, %v", out, err)
	}

	for _, args := range [][]string{
		{"chapter"},
		{"chapter", "--type", "kitap", "4"},
		{"chapter", "--type", "mektup", "4"},
		{"chapter", "0"},
		{"chapter", "list", "nope"},
	} {
		if _, err := runCLI(t, args...); err == nil {
			t.Errorf("%v should fail", args)
		}
	}
}

func TestExportCmd(t *testing.T) {
	bundle := setupCLI(t)
	if _, err := runCLI(t, "import", bundle); err != nil {
		t.Fatalf("import error = %v", err)
	}

	exported := filepath.Join(t.TempDir(), "out", "bundle.yaml")
	if _, err := runCLI(t, "export", exported); err != nil {
		t.Fatalf("export error = %v", err)
	}
	data, err := os.ReadFile(exported)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(data), "Dördüncü Söz") || !strings.Contains(string(data), "ehl-i sünnet") {
		t.Errorf("exported bundle missing content:\n%s", data)
	}
}

func TestAskCmd_NoAPIKey(t *testing.T) {
	bundle := setupCLI(t)
	if _, err := runCLI(t, "import", bundle); err != nil {
		t.Fatalf("import error = %v", err)
	}

	if _, err := runCLI(t, "ask", "İman nedir?"); err == nil {
		t.Error("ask without OPENAI_API_KEY should fail")
	}
}

func TestSearchCmd_InvalidLimit(t *testing.T) {
	setupCLI(t)
	_, err := runCLI(t, "search", "--limit", "0", "namaz")
	if err == nil || !strings.Contains(err.Error(), "limit") {
		t.Errorf("search --limit 0 error = %v", err)
	}
}

func TestImportCmd_PostgresRejected(t *testing.T) {
	bundle := setupCLI(t)
	t.Setenv("MUZAKIR_STORE", "postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/muzakir")

	_, err := runCLI(t, "import", bundle)
	if err == nil || !strings.Contains(err.Error(), "MUZAKIR_STORE") {
		t.Errorf("import with postgres store error = %v", err)
	}
}
