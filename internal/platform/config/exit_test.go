package config_test

import (
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/louisbranch/leaguepool/internal/platform/config"
)

// Exitf calls os.Exit, so the assertion runs the test binary again as a
// subprocess and inspects its exit status and stderr.
func TestExitfTerminatesWithStatusOne(t *testing.T) {
	if os.Getenv("EXITF_SUBPROCESS") == "1" {
		config.Exitf("open database %s: %v", "leaguepool.db", "permission denied")
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=^TestExitfTerminatesWithStatusOne$")
	cmd.Env = append(os.Environ(), "EXITF_SUBPROCESS=1")
	out, err := cmd.CombinedOutput()

	exitErr, ok := err.(*exec.ExitError)
	if !ok {
		t.Fatalf("expected *exec.ExitError, got %T: %v", err, err)
	}
	if code := exitErr.ExitCode(); code != 1 {
		t.Fatalf("expected exit status 1, got %d", code)
	}
	want := "open database leaguepool.db: permission denied"
	if !strings.Contains(string(out), want) {
		t.Fatalf("expected stderr to contain %q, got %q", want, string(out))
	}
}
