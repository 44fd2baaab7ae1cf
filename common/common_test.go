package common

import (
	"bytes"
	"strings"
	"testing"
)

func TestMoveTowards(t *testing.T) {
	tests := []struct {
		name                   string
		current, target, delta float64
		want                   float64
	}{
		{"step_up", 0, 10, 3, 3},
		{"step_down", 0, -10, 3, -3},
		{"snaps_when_close", 9, 10, 3, 10},
		{"zero_delta", 4, 10, 0, 4},
		{"at_target", 5, 5, 1, 5},
	}
	for _, tc := range tests {
		if got := MoveTowards(tc.current, tc.target, tc.delta); got != tc.want {
			t.Errorf("%s: MoveTowards(%v, %v, %v) = %v, want %v", tc.name, tc.current, tc.target, tc.delta, got, tc.want)
		}
	}
}

func TestClampAndLerp(t *testing.T) {
	if got := Clamp(5, 0, 1); got != 1 {
		t.Fatalf("Clamp above = %v", got)
	}
	if got := Clamp(-5, 0, 1); got != 0 {
		t.Fatalf("Clamp below = %v", got)
	}
	if got := Lerp(2, 4, 0.5); got != 3 {
		t.Fatalf("Lerp = %v", got)
	}
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		format  string
		wantErr bool
		want    string
	}{
		{name: "text_default", want: "msg=hello"},
		{name: "json", level: "debug", format: "json", want: `"msg":"hello"`},
		{name: "bad_format", format: "xml", wantErr: true},
		{name: "bad_level", level: "loud", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger, err := NewLogger(&buf, tc.level, tc.format)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			logger.Info("hello")
			if !strings.Contains(buf.String(), tc.want) {
				t.Fatalf("expected %q in %q", tc.want, buf.String())
			}
		})
	}
}

func TestNewLoggerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, "warn", "text")
	if err != nil {
		t.Fatal(err)
	}
	logger.Info("quiet")
	logger.Warn("loud")
	if strings.Contains(buf.String(), "quiet") || !strings.Contains(buf.String(), "loud") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}
