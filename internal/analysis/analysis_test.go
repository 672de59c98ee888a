package analysis

import (
	"testing"

	mdwerror "github.com/msto63/transync/foundation/core/error"
	"github.com/msto63/transync/internal/document"
)

func analyzer(t *testing.T, src string) *Analyzer {
	t.Helper()
	doc, err := document.LoadBytes([]byte(src))
	if err != nil {
		t.Fatalf("LoadBytes() error = %v", err)
	}
	a, err := New(doc)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return a
}

func TestNewWithoutDocument(t *testing.T) {
	_, err := New(nil)
	if !mdwerror.HasCode(err, mdwerror.CodeInvalidState) {
		t.Errorf("New(nil) error = %v, want INVALID_STATE", err)
	}
}

const malformed = `<translations>
  <entry>
    <value lang="de">x</value>
  </entry>
  <entry>
    <key>A</key>
    <key>B</key>
    <value>ohne</value>
    <value lang="">leer</value>
    <value lang="de">eins</value>
    <value lang="de"></value>
    <note>n</note>
  </entry>
  <context>
    <entry><key></key></entry>
  </context>
  <entry><key>Late</key></entry>
  <context id=" ">
    <context id="Deep">
      <bogus/>
    </context>
  </context>
</translations>`

func TestFileIssues(t *testing.T) {
	a := analyzer(t, malformed)

	want := []Issue{
		{Line: 2, Context: "/", Kind: KindMissingKey, Severity: SeverityError},
		{Line: 7, Context: "/", Kind: KindMultipleKeys, Severity: SeverityError},
		{Line: 8, Context: "/", Kind: KindMissingLang, Severity: SeverityError},
		{Line: 9, Context: "/", Kind: KindEmptyLang, Severity: SeverityError},
		{Line: 11, Context: "/", Kind: KindDuplicateLang, Severity: SeverityWarning},
		{Line: 11, Context: "/", Kind: KindEmptyValue, Severity: SeverityWarning},
		{Line: 12, Context: "/", Kind: KindUnknownElement, Severity: SeverityWarning},
		{Line: 14, Context: "/", Kind: KindMissingContextID, Severity: SeverityError},
		{Line: 15, Context: "/", Kind: KindEmptyKey, Severity: SeverityError},
		{Line: 18, Context: "/ ", Kind: KindEmptyContextID, Severity: SeverityError},
		{Line: 20, Context: "/ /Deep", Kind: KindUnknownElement, Severity: SeverityWarning},
	}

	got := a.FileIssues()
	if len(got) != len(want) {
		for _, i := range got {
			t.Logf("%+v", i)
		}
		t.Fatalf("FileIssues() returned %d issues, want %d", len(got), len(want))
	}
	for i := range want {
		g := got[i]
		w := want[i]
		if g.Line != w.Line || g.Context != w.Context || g.Kind != w.Kind || g.Severity != w.Severity {
			t.Errorf("issue %d = %+v, want %+v", i, g, w)
		}
		if g.Message == "" {
			t.Errorf("issue %d has no message", i)
		}
	}
	if !got[0].IsError() || got[4].IsError() {
		t.Error("IsError() does not follow severity")
	}
}

func TestFileIssuesClean(t *testing.T) {
	a := analyzer(t, `<translations>
  <entry><key>A</key><value lang="de">a</value></entry>
  <context id="C"><entry><key>B</key></entry></context>
</translations>`)
	if got := a.FileIssues(); len(got) != 0 {
		t.Errorf("FileIssues() = %+v, want none", got)
	}
}

const contexts = `<translations>
  <entry><!-- DEPRECATED --><key>Root</key></entry>
  <context id="Context A">
    <entry><!-- DEPRECATED --><key>InA</key></entry>
    <context id="Sub">
      <entry><!-- DEPRECATED --><key>InSub</key></entry>
    </context>
  </context>
  <context id="Context B">
    <entry><!-- DEPRECATED --><key>InB</key></entry>
    <entry><!-- DEPRECATED --></entry>
    <entry><key>Alive</key></entry>
  </context>
</translations>`

func refKeys(refs []EntryRef) []string {
	var out []string
	for _, r := range refs {
		if r.HasKey {
			out = append(out, r.Path+"|"+r.Key)
		} else {
			out = append(out, r.Path+"|<no key>")
		}
	}
	return out
}

func TestDeprecatedEntries(t *testing.T) {
	a := analyzer(t, contexts)

	tests := []struct {
		name    string
		include []string
		exclude []string
		want    []string
	}{
		{
			name: "all",
			want: []string{"/|Root", "/Context A|InA", "/Context A/Sub|InSub", "/Context B|InB", "/Context B|<no key>"},
		},
		{
			name:    "include prefix",
			include: []string{"^/Context A.*"},
			want:    []string{"/Context A|InA", "/Context A/Sub|InSub"},
		},
		{
			name:    "exclude wins",
			include: []string{"^/Context A.*"},
			exclude: []string{"/Sub$"},
			want:    []string{"/Context A|InA"},
		},
		{
			name:    "root only",
			include: []string{"^/$"},
			want:    []string{"/|Root"},
		},
		{
			name:    "any include",
			include: []string{"^/$", "B"},
			want:    []string{"/|Root", "/Context B|InB", "/Context B|<no key>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			refs, err := a.DeprecatedEntries(tt.include, tt.exclude)
			if err != nil {
				t.Fatalf("DeprecatedEntries() error = %v", err)
			}
			got := refKeys(refs)
			if len(got) != len(tt.want) {
				t.Fatalf("DeprecatedEntries() = %q, want %q", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ref %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestDeprecatedEntriesLines(t *testing.T) {
	a := analyzer(t, contexts)
	refs, err := a.DeprecatedEntries(nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	wantLines := []int{2, 4, 6, 10, 11}
	for i, ref := range refs {
		if ref.Line != wantLines[i] {
			t.Errorf("ref %d line = %d, want %d", i, ref.Line, wantLines[i])
		}
	}
}

func TestInvalidPattern(t *testing.T) {
	a := analyzer(t, contexts)

	_, err := a.DeprecatedEntries([]string{"("}, nil)
	if !mdwerror.HasCode(err, mdwerror.CodeInvalidPattern) {
		t.Errorf("DeprecatedEntries() error = %v, want INVALID_PATTERN", err)
	}
	_, err = a.NoTranslationEntries(nil, nil, []string{"[z-a]"})
	if !mdwerror.HasCode(err, mdwerror.CodeInvalidPattern) {
		t.Errorf("NoTranslationEntries() error = %v, want INVALID_PATTERN", err)
	}
}

func TestNoTranslationEntries(t *testing.T) {
	a := analyzer(t, `<translations>
  <entry><key>Key1</key><value lang="de">Eins</value></entry>
  <entry><key>Key2</key></entry>
  <context id="Menu">
    <entry><key>Key3</key><value lang="fr">trois</value></entry>
    <entry><key>Key\n4</key><value lang="de-AT">vier</value></entry>
  </context>
</translations>`)

	tests := []struct {
		name      string
		languages []string
		exclude   []string
		want      []string
	}{
		{name: "no languages", want: []string{"/|Key2"}},
		{name: "de", languages: []string{"de"}, want: []string{"/|Key2", "/Menu|Key3", "/Menu|Key\n4"}},
		{name: "de or fr", languages: []string{"de", "fr"}, want: []string{"/|Key2", "/Menu|Key\n4"}},
		{name: "excluded", languages: []string{"de"}, exclude: []string{"^/Menu"}, want: []string{"/|Key2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			refs, err := a.NoTranslationEntries(tt.languages, nil, tt.exclude)
			if err != nil {
				t.Fatalf("NoTranslationEntries() error = %v", err)
			}
			got := refKeys(refs)
			if len(got) != len(tt.want) {
				t.Fatalf("NoTranslationEntries() = %q, want %q", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ref %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSummary(t *testing.T) {
	a := analyzer(t, contexts)
	s := a.Summary()
	if s.Contexts != 3 || s.Entries != 6 || s.Deprecated != 5 || s.Keyless != 1 {
		t.Errorf("Summary() = %+v", s)
	}

	b := analyzer(t, `<translations>
  <entry><key>A</key><value lang="de">a</value><value lang="fr">a</value></entry>
  <entry><key>B</key><value lang="de">b</value><value lang="fr"></value></entry>
</translations>`)
	s = b.Summary()
	if s.Values["de"] != 2 || s.Values["fr"] != 1 {
		t.Errorf("Values = %v", s.Values)
	}
	langs := s.Languages()
	if len(langs) != 2 || langs[0] != "de" || langs[1] != "fr" {
		t.Errorf("Languages() = %v", langs)
	}
}

func TestPathFilter(t *testing.T) {
	tests := []struct {
		include []string
		exclude []string
		path    string
		want    bool
	}{
		{nil, nil, "/", true},
		{[]string{"^/A"}, nil, "/B", false},
		{[]string{"^/A"}, nil, "/A/B", true},
		{nil, []string{"B$"}, "/A/B", false},
		{[]string{"^/A"}, []string{"^/A"}, "/A", false},
	}
	for _, tt := range tests {
		f, err := NewPathFilter(tt.include, tt.exclude)
		if err != nil {
			t.Fatal(err)
		}
		if got := f.Match(tt.path); got != tt.want {
			t.Errorf("Match(%q) with %v/%v = %v, want %v", tt.path, tt.include, tt.exclude, got, tt.want)
		}
	}
}
