package e2e

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

// gifPixel is a 1x1 transparent GIF.
var gifPixel = []byte{
	0x47, 0x49, 0x46, 0x38, 0x39, 0x61, 0x01, 0x00, 0x01, 0x00, 0x80, 0x00, 0x00, 0x00, 0x00, 0x00,
	0xff, 0xff, 0xff, 0x21, 0xf9, 0x04, 0x01, 0x00, 0x00, 0x00, 0x00, 0x2c, 0x00, 0x00, 0x00, 0x00,
	0x01, 0x00, 0x01, 0x00, 0x00, 0x02, 0x01, 0x44, 0x00, 0x3b,
}

func buildBinary(t *testing.T) string {
	t.Helper()
	binName := "fetchboard"
	if runtime.GOOS == "windows" {
		binName = "fetchboard.exe"
	}
	binPath := filepath.Join(t.TempDir(), binName)

	// go test runs from the package directory; build from the module root.
	cmd := exec.Command("go", "build", "-o", binPath, "./cmd/fetchboard")
	cmd.Dir = "../.."
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		t.Fatalf("Failed to build fetchboard: %v", err)
	}
	return binPath
}

func newUpstream(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/jokes/random", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"created_at":"c","icon_url":"i","id":"e2e","updated_at":"u","url":"x","value":"End to end jokes are the best jokes."}`))
	})
	mux.HandleFunc("/comments", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"postId":1,"id":1,"name":"e2e commenter","email":"e2e@example.com","body":"works"}]`))
	})
	mux.HandleFunc("/pixel.gif", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(gifPixel)
	})
	mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(5 * time.Second):
		case <-r.Context().Done():
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// TestCLI_E2E verifies the built binary functions correctly
func TestCLI_E2E(t *testing.T) {
	binPath := buildBinary(t)
	srv := newUpstream(t)

	endpointEnv := []string{
		"NO_COLOR=1",
		"FETCHBOARD_JOKE_BASE_URL=" + srv.URL,
		"FETCHBOARD_COMMENTS_BASE_URL=" + srv.URL,
		"FETCHBOARD_IMAGE_BASE_URL=" + srv.URL,
		"FETCHBOARD_IMAGE_PATH=/pixel.gif",
	}

	tests := []struct {
		name     string
		args     []string
		env      []string
		wantOut  string // substring match (case-insensitive)
		wantCode int
	}{
		{
			name:     "Single Cycle",
			args:     []string{"--once", "-q"},
			env:      endpointEnv,
			wantOut:  "End to end jokes are the best jokes.",
			wantCode: 0,
		},
		{
			name:     "Image Metadata",
			args:     []string{"--once", "-q"},
			env:      endpointEnv,
			wantOut:  "gif 1x1",
			wantCode: 0,
		},
		{
			name:     "Fetch Timeout",
			args:     []string{"--once", "-q", "--timeout", "200ms", "--joke-url", srv.URL + "/slow"},
			env:      endpointEnv,
			wantOut:  "Global Status: Partial",
			wantCode: 3,
		},
		{
			name:     "Missing Resource",
			args:     []string{"--once", "-q"},
			env:      append(append([]string{}, endpointEnv...), "FETCHBOARD_COMMENTS_PATH=/missing"),
			wantOut:  "comments: Request rejected by the server",
			wantCode: 3,
		},
		{
			name:     "Help",
			args:     []string{"--help"},
			wantOut:  "usage",
			wantCode: 0,
		},
		{
			name:     "Version Flag",
			args:     []string{"--version"},
			wantOut:  "fetchboard",
			wantCode: 0,
		},
		{
			name:     "Invalid Flag",
			args:     []string{"--timeout", "-5s", "--once"},
			wantCode: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := exec.Command(binPath, tt.args...)
			cmd.Env = append(os.Environ(), tt.env...)
			output, err := cmd.CombinedOutput()
			outStr := string(output)

			code := 0
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				code = exitErr.ExitCode()
			} else if err != nil {
				t.Fatalf("Command failed to run: %v", err)
			}
			if code != tt.wantCode {
				t.Errorf("exit code = %d, want %d\nOutput: %s", code, tt.wantCode, outStr)
			}

			if tt.wantOut != "" {
				if !strings.Contains(strings.ToLower(outStr), strings.ToLower(tt.wantOut)) {
					t.Errorf("Output missing expected string.\nExpected: %q\nGot:\n%s", tt.wantOut, outStr)
				}
			}
		})
	}
}
