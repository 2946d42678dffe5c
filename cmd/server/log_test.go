package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewLogger(t *testing.T) {
	newLoggerTests := []struct {
		level      string
		wantErr    bool
		wantDebug  bool
		wantOutput bool
	}{
		{
			level:   "loud",
			wantErr: true,
		},
		{
			level:      "info",
			wantOutput: true,
		},
		{
			level:      "debug",
			wantDebug:  true,
			wantOutput: true,
		},
		{
			level: "error",
		},
	}
	for i, test := range newLoggerTests {
		var buf bytes.Buffer
		log, err := newLogger(&buf, test.level)
		switch {
		case test.wantErr:
			if err == nil {
				t.Errorf("Test %v: wanted error", i)
			}
			continue
		case err != nil:
			t.Errorf("Test %v: unwanted error: %v", i, err)
			continue
		}
		log.Debug("debug message")
		log.Printf("info %v", "message")
		got := buf.String()
		switch {
		case test.wantDebug != strings.Contains(got, "debug message"):
			t.Errorf("Test %v: wanted debug message logged: %v, got %q", i, test.wantDebug, got)
		case test.wantOutput != strings.Contains(got, "info message"):
			t.Errorf("Test %v: wanted info message logged: %v, got %q", i, test.wantOutput, got)
		}
	}
}
