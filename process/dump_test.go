package process

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"
	"golang.org/x/text/encoding/charmap"
)

func TestDump(t *testing.T) {
	src := filepath.Join(t.TempDir(), "site.css")
	writeFile(t, src, "p { margin: 1px 2px }\n@page { size: A4 }")

	tests := []struct {
		name string
		opts dumpOptions
		want []string
	}{
		{
			name: "as is",
			want: []string{`margin: "1px 2px"`, "items=2 rules=1 warnings=0", "at-rule @page at 22-40", `selector "p" specificity=1`},
		},
		{
			name: "expanded",
			opts: dumpOptions{expand: true},
			want: []string{`margin-top: "1px"`, `margin-left: "2px"`},
		},
		{
			name: "roundtrip",
			opts: dumpOptions{expand: true, contract: true},
			want: []string{`margin: "1px 2px"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			if err := dump(&out, nil, []string{src}, tt.opts, zaptest.NewLogger(t)); err != nil {
				t.Fatalf("dump() error = %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(out.String(), want) {
					t.Errorf("output does not contain %q:\n%s", want, out.String())
				}
			}
		})
	}
}

func TestDump_Stdin(t *testing.T) {
	src, err := charmap.KOI8R.NewEncoder().String(`h1 { font-family: "Заголовок" }`)
	if err != nil {
		t.Fatalf("unable to encode source: %v", err)
	}

	var out bytes.Buffer
	if err := dump(&out, strings.NewReader(src), []string{"-"}, dumpOptions{enc: charmap.KOI8R}, zaptest.NewLogger(t)); err != nil {
		t.Fatalf("dump() error = %v", err)
	}
	if !strings.Contains(out.String(), `"\"Заголовок\""`) {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}

func TestDump_MissingSource(t *testing.T) {
	var out bytes.Buffer
	if err := dump(&out, nil, []string{filepath.Join(t.TempDir(), "none.css")}, dumpOptions{}, zaptest.NewLogger(t)); err == nil {
		t.Error("expected error for missing source")
	}
}
