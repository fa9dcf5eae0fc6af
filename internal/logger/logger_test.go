package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestResolveLogFilePathFallsBackToWorkingDir(t *testing.T) {
	tmpDir := t.TempDir()
	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("get wd failed: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Chdir(oldWD)
	})
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("chdir failed: %v", err)
	}

	got, err := resolveLogFilePath(Options{})
	if err != nil {
		t.Fatalf("resolve default log path failed: %v", err)
	}

	wantDir, err := filepath.EvalSymlinks(filepath.Join(tmpDir, defaultLogDirName))
	if err != nil {
		t.Fatalf("log dir was not created: %v", err)
	}
	gotDir, err := filepath.EvalSymlinks(filepath.Dir(got))
	if err != nil {
		t.Fatalf("resolve log dir failed: %v", err)
	}
	if gotDir != wantDir {
		t.Fatalf("log dir: got %s want %s", gotDir, wantDir)
	}
	if filepath.Base(got) != defaultLogFilename {
		t.Fatalf("log filename: got %s want %s", filepath.Base(got), defaultLogFilename)
	}
}

func TestNewFileOutputPerMode(t *testing.T) {
	cases := []struct {
		mode      string
		wantsFile bool
	}{
		{"release", true},
		{"debug", false},
	}
	for _, tc := range cases {
		t.Run(tc.mode, func(t *testing.T) {
			tmpDir := t.TempDir()
			log := New(tc.mode, Options{Dir: tmpDir, Filename: "api.log"})
			log.Info("claim_admitted",
				zap.String("special", "falafel-lunch"),
				zap.String("claimant", "guest"),
			)
			_ = log.Sync()

			content, err := os.ReadFile(filepath.Join(tmpDir, "api.log"))
			if tc.wantsFile {
				if err != nil {
					t.Fatalf("release mode must write the log file: %v", err)
				}
				if !strings.Contains(string(content), "claim_admitted") {
					t.Fatalf("log file is missing the entry: %s", string(content))
				}
				return
			}
			if !os.IsNotExist(err) {
				t.Fatalf("debug mode must not create a log file, read err: %v", err)
			}
		})
	}
}
