package lookup

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/msto63/transync/internal/document"
	"github.com/msto63/transync/pkg/core/logging"
)

const translations = `<translations>
  <entry>
    <key>Open</key>
    <value lang="de">Öffnen</value>
    <value lang="de-AT">Aufmachen</value>
    <value lang="fr">Ouvrir</value>
  </entry>
  <entry>
    <key>Line\nBreak</key>
    <value lang="de">Zeilen\numbruch</value>
    <value lang="de">ignored duplicate</value>
    <value lang="it"></value>
  </entry>
  <entry><value lang="de">keyless</value></entry>
  <context id="Menu">
    <entry>
      <key>Open</key>
      <value lang="fr">Ouvrir le menu</value>
    </entry>
    <context id="File">
      <entry>
        <key>Quit</key>
        <value lang="de">Beenden</value>
      </entry>
    </context>
  </context>
</translations>`

func table(t *testing.T) *Table {
	t.Helper()
	doc, err := document.LoadBytes([]byte(translations))
	if err != nil {
		t.Fatalf("LoadBytes() error = %v", err)
	}
	return NewTable(doc)
}

func TestTable(t *testing.T) {
	tb := table(t)

	if got := tb.Len(); got != 4 {
		t.Errorf("Len() = %d, want 4", got)
	}
	langs := tb.Languages()
	want := []string{"de", "de-AT", "fr"}
	if strings.Join(langs, ",") != strings.Join(want, ",") {
		t.Errorf("Languages() = %v, want %v", langs, want)
	}

	tests := []struct {
		ctx, key, lang string
		want           string
		ok             bool
	}{
		{"", "Open", "de", "Öffnen", true},
		{"/", "Open", "fr", "Ouvrir", true},
		{"Menu", "Open", "fr", "Ouvrir le menu", true},
		{"/Menu/File/", "Quit", "de", "Beenden", true},
		{"", "Line\nBreak", "de", "Zeilen\numbruch", true},
		{"", "Line\nBreak", "it", "", false},
		{"Menu", "Open", "de", "", false},
	}
	for _, tt := range tests {
		got, ok := tb.Get(tt.ctx, tt.key, tt.lang)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Get(%q, %q, %q) = %q, %v, want %q, %v", tt.ctx, tt.key, tt.lang, got, ok, tt.want, tt.ok)
		}
	}
}

func TestNewTableNil(t *testing.T) {
	if n := NewTable(nil).Len(); n != 0 {
		t.Errorf("NewTable(nil).Len() = %d", n)
	}
}

func TestCandidates(t *testing.T) {
	tests := []struct {
		lang string
		want []string
	}{
		{"de", []string{"de"}},
		{"de-AT", []string{"de-AT", "de"}},
		{"de_AT", []string{"de_AT", "de-AT", "de"}},
		{"DE-at", []string{"DE-at", "de-AT", "de"}},
		{"zh-Hant-TW", []string{"zh-Hant-TW", "zh-TW", "zh"}},
	}
	for _, tt := range tests {
		got := Candidates(tt.lang)
		if strings.Join(got, ",") != strings.Join(tt.want, ",") {
			t.Errorf("Candidates(%q) = %v, want %v", tt.lang, got, tt.want)
		}
	}
}

func TestTranslate(t *testing.T) {
	tb := table(t)

	tests := []struct {
		name string
		lang string
		ctx  string
		key  string
		want string
	}{
		{"exact", "de", "", "Open", "Öffnen"},
		{"exact variant", "de-AT", "", "Open", "Aufmachen"},
		{"variant to base", "de-CH", "", "Open", "Öffnen"},
		{"nested context", "de", "Menu/File", "Quit", "Beenden"},
		{"own context first", "fr", "Menu", "Open", "Ouvrir le menu"},
		{"parent context", "de", "Menu", "Open", "Öffnen"},
		{"grandparent context", "fr", "Menu/File", "Open", "Ouvrir le menu"},
		{"unknown context", "de", "Nowhere", "Open", "Öffnen"},
		{"decoded key", "de", "", "Line\nBreak", "Zeilen\numbruch"},
		{"key fallback", "de", "", "Missing", "Missing"},
		{"empty value falls back", "it", "", "Line\nBreak", "Line\nBreak"},
		{"language fallback", "es", "Menu", "Open", "Open"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewTranslator(tb, tt.lang, nil)
			if got := tr.Translate(tt.ctx, tt.key); got != tt.want {
				t.Errorf("Translate(%q, %q) = %q, want %q", tt.ctx, tt.key, got, tt.want)
			}
		})
	}
}

func TestTranslateLogsMissingOnce(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.NewLogger(logging.LoggerConfig{
		Name:   "lookup",
		Level:  "debug",
		Format: "logfmt",
		Output: &buf,
	})
	if err != nil {
		t.Fatal(err)
	}

	tr := NewTranslator(table(t), "de", logger)
	tr.Translate("", "Missing")
	tr.Translate("", "Missing")
	tr.Translate("Menu", "Missing")

	if n := strings.Count(buf.String(), "Missing translation"); n != 2 {
		t.Errorf("logged %d misses, want 2:\n%s", n, buf.String())
	}
	if tr.Language() != "de" {
		t.Errorf("Language() = %q", tr.Language())
	}
}

func TestLoadTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "translations.xml")
	if err := os.WriteFile(path, []byte(translations), 0o644); err != nil {
		t.Fatal(err)
	}
	tb, err := LoadTable(path)
	if err != nil {
		t.Fatalf("LoadTable() error = %v", err)
	}
	if tb.Len() != 4 {
		t.Errorf("Len() = %d, want 4", tb.Len())
	}

	missing, err := LoadTable(filepath.Join(t.TempDir(), "none.xml"))
	if err != nil || missing.Len() != 0 {
		t.Errorf("LoadTable(missing) = %v, %v", missing, err)
	}

	bad := filepath.Join(t.TempDir(), "bad.xml")
	os.WriteFile(bad, []byte("<other/>"), 0o644)
	if _, err := LoadTable(bad); err == nil {
		t.Error("LoadTable() accepted a foreign root element")
	}
}
