package css_test

import (
	"errors"
	"testing"

	"cssr/css"
)

func TestScanFont(t *testing.T) {
	tests := []struct {
		value string
		want  css.FontParts
	}{
		{
			value: "12px serif",
			want:  css.FontParts{Style: "normal", Variant: "normal", Weight: "normal", Size: "12px", LineHeight: "normal", Family: "serif"},
		},
		{
			value: "bold italic small-caps 1.2em/1.5 \"Times New Roman\", serif",
			want: css.FontParts{Style: "italic", Variant: "small-caps", Weight: "bold", Size: "1.2em", LineHeight: "1.5",
				Family: "\"Times New Roman\", serif"},
		},
		{
			value: "oblique 700 large / normal Arial",
			want:  css.FontParts{Style: "oblique", Variant: "normal", Weight: "700", Size: "large", LineHeight: "normal", Family: "Arial"},
		},
		{
			value: "350 12px arial",
			want:  css.FontParts{Style: "normal", Variant: "normal", Weight: "350", Size: "12px", LineHeight: "normal", Family: "arial"},
		},
		{
			value: "italic 350.5 1em/2 serif",
			want:  css.FontParts{Style: "italic", Variant: "normal", Weight: "350.5", Size: "1em", LineHeight: "2", Family: "serif"},
		},
		{
			value: "120% sans-serif",
			want:  css.FontParts{Style: "normal", Variant: "normal", Weight: "normal", Size: "120%", LineHeight: "normal", Family: "sans-serif"},
		},
		{
			value: "10pt",
			want:  css.FontParts{Style: "normal", Variant: "normal", Weight: "normal", Size: "10pt", LineHeight: "normal"},
		},
		{
			value: "inherit",
			want: css.FontParts{Style: "inherit", Variant: "inherit", Weight: "inherit", Size: "inherit", LineHeight: "inherit",
				Family: "inherit"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := css.ScanFont(tt.value)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got  %+v\nwant %+v", got, tt.want)
			}
		})
	}
}

func TestScanFont_SystemFont(t *testing.T) {
	got, err := css.ScanFont("Message-Box")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.System != "message-box" {
		t.Errorf("expected system font, got %+v", got)
	}
}

func TestScanFont_Errors(t *testing.T) {
	tests := []struct {
		value string
		want  error
	}{
		{"", css.ErrFontSizeMissing},
		{"bold serif", css.ErrFontSizeMissing},
		{"italic 950 12px serif", css.ErrFontSizeMissing},
		{"12px/ serif", css.ErrLineHeightMissing},
		{"12px/", css.ErrLineHeightMissing},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			_, err := css.ScanFont(tt.value)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}
