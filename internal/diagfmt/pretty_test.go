package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/woupiestek/rlox/internal/diag"
	"github.com/woupiestek/rlox/internal/source"
	"github.com/woupiestek/rlox/internal/token"
)

func oneDiagBag(fs *source.FileSet) (*diag.Bag, source.FileID) {
	id := fs.AddVirtual("test.lox", []byte("print missing;\n"))
	bag := diag.NewBag(10)
	bag.Add(diag.Diagnostic{
		Severity: diag.SevError,
		Code:     diag.CmpInfo,
		Message:  "Undefined variable 'missing'.",
		Primary:  source.Span{File: id, Start: 6, End: 13},
	})
	return bag, id
}

func TestPrettyHeadingAndCarets(t *testing.T) {
	fs := source.NewFileSet()
	bag, _ := oneDiagBag(fs)

	var out bytes.Buffer
	Pretty(&out, bag, fs, PrettyOpts{})
	got := out.String()

	if !strings.Contains(got, "test.lox:1:7: ERROR LOX3000: Undefined variable 'missing'.") {
		t.Fatalf("heading missing or malformed:\n%s", got)
	}
	if !strings.Contains(got, "  print missing;") {
		t.Fatalf("source context missing:\n%s", got)
	}
	// Six columns of padding, then one caret and six tildes under "missing".
	if !strings.Contains(got, "  "+strings.Repeat(" ", 6)+"^~~~~~~") {
		t.Fatalf("caret underline misaligned:\n%s", got)
	}
}

func TestPrettyColorDisabledLeavesPlainText(t *testing.T) {
	fs := source.NewFileSet()
	bag, _ := oneDiagBag(fs)

	var out bytes.Buffer
	Pretty(&out, bag, fs, PrettyOpts{Color: false})
	if strings.Contains(out.String(), "\x1b[") {
		t.Fatalf("color disabled but output has escape codes:\n%q", out.String())
	}
}

func TestPrettyBasenameMode(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("deep/nested/test.lox", []byte("print 1;\n"))
	bag := diag.NewBag(10)
	bag.Add(diag.Diagnostic{
		Severity: diag.SevWarning,
		Code:     diag.SynInfo,
		Message:  "note for display",
		Primary:  source.Span{File: id, Start: 0, End: 5},
	})

	var out bytes.Buffer
	Pretty(&out, bag, fs, PrettyOpts{PathMode: PathModeBasename})
	got := out.String()
	if !strings.HasPrefix(got, "test.lox:1:1:") {
		t.Fatalf("basename mode kept directories:\n%s", got)
	}
}

func TestJSONReport(t *testing.T) {
	fs := source.NewFileSet()
	bag, _ := oneDiagBag(fs)

	var out bytes.Buffer
	if err := JSON(&out, bag, fs, JSONOpts{IncludePositions: true}); err != nil {
		t.Fatal(err)
	}

	var report DiagnosticsOutput
	if err := json.Unmarshal(out.Bytes(), &report); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if report.Count != 1 || len(report.Diagnostics) != 1 {
		t.Fatalf("count = %d, diagnostics = %d", report.Count, len(report.Diagnostics))
	}
	d := report.Diagnostics[0]
	if d.Severity != "ERROR" || d.Message != "Undefined variable 'missing'." {
		t.Fatalf("diagnostic = %+v", d)
	}
	if d.Location.StartLine != 1 || d.Location.StartCol != 7 {
		t.Fatalf("location = %+v", d.Location)
	}
}

func TestJSONMaxTruncatesOutputNotCount(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.lox", []byte("print 1;\n"))
	bag := diag.NewBag(10)
	for i := 0; i < 3; i++ {
		bag.Add(diag.Diagnostic{
			Severity: diag.SevError,
			Code:     diag.SynInfo,
			Message:  "x",
			Primary:  source.Span{File: id, Start: uint32(i), End: uint32(i + 1)},
		})
	}

	var out bytes.Buffer
	if err := JSON(&out, bag, fs, JSONOpts{Max: 2}); err != nil {
		t.Fatal(err)
	}
	var report DiagnosticsOutput
	if err := json.Unmarshal(out.Bytes(), &report); err != nil {
		t.Fatal(err)
	}
	if len(report.Diagnostics) != 2 || report.Count != 3 {
		t.Fatalf("got %d diagnostics with count %d, want 2 with count 3",
			len(report.Diagnostics), report.Count)
	}
}

func TestFormatTokensPrettyStopsAtEOF(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.lox", []byte("print 1;"))
	tokens := []token.Token{
		{Kind: token.KwPrint, Text: "print", Span: source.Span{File: id, Start: 0, End: 5}},
		{Kind: token.NumberLit, Text: "1", Span: source.Span{File: id, Start: 6, End: 7}},
		{Kind: token.Semicolon, Text: ";", Span: source.Span{File: id, Start: 7, End: 8}},
		{Kind: token.EOF, Span: source.Span{File: id, Start: 8, End: 8}},
		{Kind: token.KwPrint, Text: "stray", Span: source.Span{File: id, Start: 0, End: 5}},
	}

	var out bytes.Buffer
	if err := FormatTokensPretty(&out, tokens, fs); err != nil {
		t.Fatal(err)
	}
	got := out.String()
	if strings.Contains(got, "stray") {
		t.Fatalf("tokens after EOF should not print:\n%s", got)
	}
	if !strings.Contains(got, `"print"`) || !strings.Contains(got, "at 1:1-1:6") {
		t.Fatalf("token line malformed:\n%s", got)
	}
}

func TestFormatTokensJSON(t *testing.T) {
	tokens := []token.Token{
		{Kind: token.NumberLit, Text: "1"},
		{Kind: token.EOF},
	}
	var out bytes.Buffer
	if err := FormatTokensJSON(&out, tokens); err != nil {
		t.Fatal(err)
	}
	var decoded []TokenOutput
	if err := json.Unmarshal(out.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	if len(decoded) != 2 || decoded[0].Kind != token.NumberLit.String() {
		t.Fatalf("decoded = %+v", decoded)
	}
}
