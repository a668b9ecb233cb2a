package preproc

import "regexp"

// markerRE extracts the directive payload from a marker line. A bare "##"
// with nothing after it does not match and falls through as plain text.
var markerRE = regexp.MustCompile(`^##\s*(.+)`)

// directiveKind identifies a recognized directive keyword.
type directiveKind int

const (
	kindIf directiveKind = iota
	kindElif
	kindElse
	kindEndif
	kindIfdef
	kindIfndef
	kindDefine
	kindUndef
)

// keywordMatchers are tried in a fixed sequence per directive payload; the
// first match wins. The order matters: IFDEF/IFNDEF names could themselves
// look like valid IF expressions, so the sequence mirrors the documented
// precedence (IF, ELIF, ELSE, ENDIF, IFDEF, IFNDEF, DEFINE, UNDEF).
//
// None of the patterns anchor to end of line, which is how trailing free
// text after a recognized keyword and its argument is tolerated. Expression
// arguments capture the whole remainder of the line; comments inside them
// use the expression language's own syntax.
var keywordMatchers = []struct {
	kind directiveKind
	re   *regexp.Regexp
}{
	{kindIf, regexp.MustCompile(`^IF\s+(.+)`)},
	{kindElif, regexp.MustCompile(`^ELIF\s+(.+)`)},
	{kindElse, regexp.MustCompile(`^ELSE\b`)},
	{kindEndif, regexp.MustCompile(`^ENDIF\b`)},
	{kindIfdef, regexp.MustCompile(`^IFDEF\s+(\w+)`)},
	{kindIfndef, regexp.MustCompile(`^IFNDEF\s+(\w+)`)},
	{kindDefine, regexp.MustCompile(`^DEFINE\s+(\w+)\s*(?:=\s*(.+))?`)},
	{kindUndef, regexp.MustCompile(`^UNDEF(?:INE)?\s+(\w+)`)},
}

// directive is one parsed directive line.
type directive struct {
	kind directiveKind
	name string // IFDEF, IFNDEF, DEFINE, UNDEF
	expr string // IF, ELIF, DEFINE with "=" (empty for a bare DEFINE)
}

// matchPayload matches a directive payload against the keyword matchers.
// Returns false if no keyword matches, which is a syntax error at the
// caller.
func matchPayload(payload string) (directive, bool) {
	for _, m := range keywordMatchers {
		groups := m.re.FindStringSubmatch(payload)
		if groups == nil {
			continue
		}
		d := directive{kind: m.kind}
		switch m.kind {
		case kindIf, kindElif:
			d.expr = groups[1]
		case kindIfdef, kindIfndef, kindUndef:
			d.name = groups[1]
		case kindDefine:
			d.name = groups[1]
			d.expr = groups[2]
		}
		return d, true
	}
	return directive{}, false
}
