package dateutil

import (
	"errors"
	"testing"
	"time"
)

func TestParseDateFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		format  string
		want    string
		wantErr error
	}{
		{name: "year", format: "YYYY", want: "2006"},
		{name: "short year", format: "YY", want: "06"},
		{name: "month name", format: "MMMM", want: "January"},
		{name: "short month", format: "MMM", want: "Jan"},
		{name: "padded month", format: "MM", want: "01"},
		{name: "month", format: "M", want: "1"},
		{name: "day", format: "DD", want: "02"},
		{name: "hour and minute", format: "HHmm", want: "1504"},
		{name: "seconds", format: "HH:mm:ss", want: "15:04:05"},
		{name: "month vs minute", format: "MM-mm", want: "01-04"},
		{name: "bracket literal", format: "[markdown_]YYYYMMDD[_]HHmm", want: "markdown_20060102_1504"},
		{name: "separators kept", format: "DD/MM/YYYY", want: "02/01/2006"},
		{name: "preset", format: "compact", want: "20060102_1504"},
		{name: "preset case", format: "ISO", want: "2006-01-02"},
		{name: "empty", format: "", wantErr: ErrInvalidDateFormat},
		{name: "unclosed bracket", format: "[draft", wantErr: ErrInvalidDateFormat},
		{name: "digit in literal", format: "[v2_]YYYY", wantErr: ErrInvalidDateFormat},
		{name: "too long", format: "YYYY-MM-DD YYYY-MM-DD YYYY-MM-DD YYYY-MM-DD YYYY-MM", wantErr: ErrInvalidDateFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseDateFormat(tt.format)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("ParseDateFormat(%q) error = %v, want %v", tt.format, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDateFormat(%q) unexpected error: %v", tt.format, err)
			}
			if got != tt.want {
				t.Errorf("ParseDateFormat(%q) = %q, want %q", tt.format, got, tt.want)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, time.March, 7, 9, 5, 0, 0, time.UTC)

	got, err := Format("[markdown_]YYYYMMDD[_]HHmm", at)
	if err != nil {
		t.Fatal(err)
	}
	if got != "markdown_20260307_0905" {
		t.Errorf("Format() = %q", got)
	}

	if got, _ := Format("long", at); got != "March 7, 2026" {
		t.Errorf("Format(long) = %q", got)
	}

	if _, err := Format("", at); !errors.Is(err, ErrInvalidDateFormat) {
		t.Errorf("Format(\"\") error = %v", err)
	}
}
