package log

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestInitWithOptionsWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "remotewater.log")
	if err := InitWithOptions(Options{File: path, MaxBackups: 1}); err != nil {
		t.Fatalf("InitWithOptions: %v", err)
	}
	t.Cleanup(func() { _ = Init(false) })

	Infow("scores saved", "sample", "2024-0117")
	Debugf("hidden at info level")
	LogHTTPRequest("GET", "/ratings", 500, 3*time.Millisecond, 12, "127.0.0.1:5000", "curl", errors.New("boom"))
	Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	out := string(data)
	for _, want := range []string{`"msg":"scores saved"`, `"sample":"2024-0117"`, `"/ratings"`, `"level":"error"`} {
		if !strings.Contains(out, want) {
			t.Errorf("log file missing %s:\n%s", want, out)
		}
	}
	if strings.Contains(out, "hidden at info level") {
		t.Error("debug line written at info level")
	}
}

func TestGetSugaredLoggerBeforeInit(t *testing.T) {
	log, baseLogger = nil, nil
	if GetSugaredLogger() == nil || GetZapLogger() == nil {
		t.Fatal("fallback logger not created")
	}
}
