package zap

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/unkn0wn-root/crypter"
)

func TestLevelsAndFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := New(zap.New(core))

	l.Debug("d", nil)
	l.Info("i", crypter.Fields{"method": "rot13"})
	l.Warn("w", crypter.Fields{"err": errors.New("boom")})
	l.Error("e", crypter.Fields{"seq": uint64(3)})

	all := logs.AllUntimed()
	if len(all) != 4 {
		t.Fatalf("got %d entries", len(all))
	}
	wantLevels := []zapcore.Level{zapcore.DebugLevel, zapcore.InfoLevel, zapcore.WarnLevel, zapcore.ErrorLevel}
	for i, e := range all {
		if e.Level != wantLevels[i] {
			t.Fatalf("entry %d level %v", i, e.Level)
		}
	}
	if got := all[1].ContextMap()["method"]; got != "rot13" {
		t.Fatalf("method field = %v", got)
	}
	if got := all[2].ContextMap()["err"]; got != "boom" {
		t.Fatalf("err field = %v", got)
	}
}
