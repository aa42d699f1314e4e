package scaffold

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCheckExisting(t *testing.T) {
	tests := []struct {
		name      string
		setupFunc func(t *testing.T, dir string)
		wantErr   bool
		errMsg    string
	}{
		{
			name:      "no existing files",
			setupFunc: func(t *testing.T, dir string) {},
			wantErr:   false,
		},
		{
			name: "existing config only",
			setupFunc: func(t *testing.T, dir string) {
				if err := os.WriteFile(filepath.Join(dir, ConfigFile), []byte("version: '1.0'"), 0644); err != nil {
					t.Fatal(err)
				}
			},
			wantErr: true,
			errMsg:  ConfigFile,
		},
		{
			name: "existing manifest only",
			setupFunc: func(t *testing.T, dir string) {
				if err := os.WriteFile(filepath.Join(dir, ManifestFile), []byte("{}"), 0644); err != nil {
					t.Fatal(err)
				}
			},
			wantErr: true,
			errMsg:  ManifestFile,
		},
		{
			name: "both files exist",
			setupFunc: func(t *testing.T, dir string) {
				if err := os.WriteFile(filepath.Join(dir, ConfigFile), []byte("version: '1.0'"), 0644); err != nil {
					t.Fatal(err)
				}
				if err := os.WriteFile(filepath.Join(dir, ManifestFile), []byte("{}"), 0644); err != nil {
					t.Fatal(err)
				}
			},
			wantErr: true,
			errMsg:  "project already initialized",
		},
		{
			name: "unrelated files are ignored",
			setupFunc: func(t *testing.T, dir string) {
				if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte("# events"), 0644); err != nil {
					t.Fatal(err)
				}
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			tt.setupFunc(t, dir)

			err := CheckExisting(dir)

			if (err != nil) != tt.wantErr {
				t.Errorf("CheckExisting() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if tt.wantErr && err != nil {
				if tt.errMsg != "" && !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("CheckExisting() error = %v, should contain %v", err.Error(), tt.errMsg)
				}
			}
		})
	}
}
