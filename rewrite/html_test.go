package rewrite

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"go.uber.org/multierr"
	"go.uber.org/zap/zaptest"
	"golang.org/x/text/encoding/charmap"

	"cssr/config"
	"cssr/css"
)

func TestRewriter_HTML(t *testing.T) {
	rw := New(Options{Pipeline: config.PipelineExpand}, zaptest.NewLogger(t))

	input := `<html><head><meta charset="windows-1251"><style>p { margin: 1px 2px }</style></head>` +
		`<body><div style="margin: 0 auto">x</div><p>y</p></body></html>`

	var out bytes.Buffer
	if err := rw.HTML(&out, strings.NewReader(input), nil, "index.html"); err != nil {
		t.Fatalf("HTML() error = %v", err)
	}

	got := out.String()
	for _, want := range []string{
		`<meta charset="utf-8"/>`,
		"<style>\np { margin-top: 1px; margin-right: 2px; margin-bottom: 1px; margin-left: 2px; }\n</style>",
		`<div style="margin-top: 0; margin-right: auto; margin-bottom: 0; margin-left: auto;">x</div>`,
		`<p>y</p>`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output does not contain %q:\n%s", want, got)
		}
	}
}

func TestRewriter_HTMLEncoding(t *testing.T) {
	rw := New(Options{Pipeline: config.PipelineContract}, zaptest.NewLogger(t))

	src, err := charmap.Windows1251.NewEncoder().String(
		`<html><head><meta http-equiv="Content-Type" content="text/html; charset=windows-1251"></head>` +
			`<body><p style="padding-top: 1px; padding-right: 1px; padding-bottom: 1px; padding-left: 1px">Привет</p></body></html>`)
	if err != nil {
		t.Fatalf("unable to encode source: %v", err)
	}

	var out bytes.Buffer
	if err := rw.HTML(&out, strings.NewReader(src), charmap.Windows1251, "ru.html"); err != nil {
		t.Fatalf("HTML() error = %v", err)
	}

	got := out.String()
	for _, want := range []string{
		`content="text/html; charset=utf-8"`,
		`<p style="padding: 1px;">Привет</p>`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output does not contain %q:\n%s", want, got)
		}
	}
}

func TestRewriter_HTMLErrors(t *testing.T) {
	rw := New(Options{Pipeline: config.PipelineExpand}, zaptest.NewLogger(t))

	input := `<div style="margin: 1px 2px 3px 4px 5px"></div><style>a { padding: 1px 1px 1px 1px 1px }</style>`

	var out bytes.Buffer
	err := rw.HTML(&out, strings.NewReader(input), nil, "bad.html")
	if !errors.Is(err, css.ErrDimensionParse) {
		t.Fatalf("expected ErrDimensionParse, got %v", err)
	}
	if n := len(multierr.Errors(err)); n != 2 {
		t.Errorf("expected 2 errors, got %d: %v", n, err)
	}
	if out.Len() != 0 {
		t.Errorf("nothing should be written on error, got %q", out.String())
	}
}

func TestRewriter_XHTML(t *testing.T) {
	rw := New(Options{Pipeline: config.PipelineExpand}, zaptest.NewLogger(t))

	src, err := charmap.Windows1251.NewEncoder().String(`<?xml version="1.0" encoding="windows-1251"?>
<html xmlns="http://www.w3.org/1999/xhtml"><head><style type="text/css">p { margin: 1px }</style></head>` +
		`<body><p style="padding: 1px 2px 3px">Привет</p></body></html>`)
	if err != nil {
		t.Fatalf("unable to encode source: %v", err)
	}

	var out bytes.Buffer
	if err := rw.XHTML(&out, strings.NewReader(src), nil, "ch01.xhtml"); err != nil {
		t.Fatalf("XHTML() error = %v", err)
	}

	got := out.String()
	for _, want := range []string{
		`<?xml version="1.0" encoding="utf-8"?>`,
		"p { margin-top: 1px; margin-right: 1px; margin-bottom: 1px; margin-left: 1px; }",
		`style="padding-top: 1px; padding-right: 2px; padding-bottom: 3px; padding-left: 2px;"`,
		"Привет",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output does not contain %q:\n%s", want, got)
		}
	}
}

func TestRewriter_XHTMLMalformed(t *testing.T) {
	rw := New(Options{Pipeline: config.PipelineExpand}, zaptest.NewLogger(t))

	var out bytes.Buffer
	if err := rw.XHTML(&out, strings.NewReader(`<html><body><<p style="margin: 0"/></body></html>`), nil, "broken.xhtml"); err == nil {
		t.Error("expected error for malformed document")
	}
}
