package main

import (
	"os"
	"path/filepath"
	"testing"

	"cssr/config"
	"cssr/misc"
)

func TestRemoveEmptyPanicLog(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "cssr.log")
	panicLog := filepath.Join(dir, misc.GetAppName()+"-panic.log")

	if err := os.WriteFile(panicLog, nil, 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	if err := removeEmptyPanicLog(logFile); err != nil {
		t.Fatalf("removeEmptyPanicLog() error = %v", err)
	}
	if _, err := os.Stat(panicLog); !os.IsNotExist(err) {
		t.Error("empty panic log was not removed")
	}

	if err := os.WriteFile(panicLog, []byte("goroutine 1 [running]"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	if err := removeEmptyPanicLog(logFile); err != nil {
		t.Fatalf("removeEmptyPanicLog() error = %v", err)
	}
	if _, err := os.Stat(panicLog); err != nil {
		t.Error("panic log with content must be kept")
	}

	if err := removeEmptyPanicLog(""); err != nil {
		t.Errorf("removeEmptyPanicLog() without log file error = %v", err)
	}
}

func TestNewApp(t *testing.T) {
	app := newApp()
	for _, name := range []string{"expand", "contract", "roundtrip", "dump", "dumpconfig"} {
		if app.Command(name) == nil {
			t.Errorf("command %q is not registered", name)
		}
	}
}

func TestStoreConfiguration(t *testing.T) {
	dir := t.TempDir()
	conf := config.ReporterConfig{Destination: filepath.Join(dir, "report.zip")}
	rpt, err := conf.Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	// nil report must be accepted
	storeConfiguration(nil, cfg, "")
	storeConfiguration(rpt, cfg, filepath.Join(dir, "my.yaml"))

	if err := rpt.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if fi, err := os.Stat(conf.Destination); err != nil || fi.Size() == 0 {
		t.Errorf("report was not written: %v", err)
	}
}
