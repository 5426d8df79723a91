package sloghooks

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func newBuf() (*bytes.Buffer, *slog.Logger) {
	var buf bytes.Buffer
	return &buf, slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestUsersAreRedacted(t *testing.T) {
	buf, l := newBuf()
	h := New(l, Options{})
	h.HistoryWriteFailed("ada@example.com", errors.New("disk full"))

	out := buf.String()
	if strings.Contains(out, "ada@example.com") {
		t.Fatalf("user leaked: %s", out)
	}
	if !strings.Contains(out, "crypter.history_write_failed") || !strings.Contains(out, "disk full") {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestDecodeFailedSampling(t *testing.T) {
	buf, l := newBuf()
	h := New(l, Options{DecodeFailedEvery: 3})
	for i := 0; i < 9; i++ {
		h.DecodeFailed("binary", "invalid binary group")
	}
	if n := strings.Count(buf.String(), "crypter.decode_failed"); n != 3 {
		t.Fatalf("logged %d times, want 3", n)
	}
}

func TestCustomRedactorAndNilLogger(t *testing.T) {
	buf, l := newBuf()
	h := New(l, Options{Redact: func(string) string { return "<k>" }})
	h.HistorySelfHeal("hist:ns:ada:1", "corrupt")
	if !strings.Contains(buf.String(), "key=<k>") {
		t.Fatalf("output: %s", buf.String())
	}

	quiet := New(nil, Options{})
	quiet.DecodeFailed("morse", "x")
	quiet.HistoryReadFailed("ada", errors.New("x"))
}
