package server

import (
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
)

func TestGoroutineExpectations(t *testing.T) {
	var numExpectations [2]int
	for i, hasTLS := range [2]bool{false, true} {
		m := runtimeMonitor{
			hasTLS: hasTLS,
		}
		var w strings.Builder
		m.writeGoroutineExpectations(&w)
		expectations := w.String()
		lines := strings.Split(expectations, "\n")
		for _, e := range lines {
			if strings.HasPrefix(e, "* ") {
				numExpectations[i]++
			}
		}
		want := strconv.Itoa(numExpectations[i])
		if len(lines) < 2 || !strings.Contains(lines[1], want) {
			t.Errorf("Test %v: wanted %v goroutine expectations", i, want)
		}
	}
	if numExpectations[0] == numExpectations[1] {
		t.Error("wanted different goroutine expectations for http-only and http/https server")
	}
}

func TestRuntimeMonitor(t *testing.T) {
	var m runtimeMonitor
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/monitor", nil)
	m.ServeHTTP(w, r)
	body := w.Body.String()
	for _, want := range []string{"--- Memory Stats ---", "--- Goroutine Expectations ---", "--- Goroutine Stack Traces ---"} {
		if !strings.Contains(body, want) {
			t.Errorf("wanted %q in monitor response", want)
		}
	}
}
