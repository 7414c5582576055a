package format

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestBuildsFor32BitTargets cross-compiles the allocator packages for the
// 32-bit architectures small boards use.
func TestBuildsFor32BitTargets(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping cross-compile in short mode")
	}
	goBin, err := exec.LookPath("go")
	if err != nil {
		t.Skip("go toolchain not on PATH")
	}
	root, err := filepath.Abs(filepath.Join("..", ".."))
	require.NoError(t, err)

	targets := []struct{ goos, goarch string }{
		{"linux", "386"},
		{"linux", "arm"},
		{"linux", "mipsle"},
	}
	for _, tt := range targets {
		t.Run(tt.goos+"/"+tt.goarch, func(t *testing.T) {
			cmd := exec.Command(goBin, "build", "./internal/...", "./fixed", "./xalloc")
			cmd.Dir = root
			cmd.Env = append(os.Environ(), "GOOS="+tt.goos, "GOARCH="+tt.goarch, "CGO_ENABLED=0")
			out, err := cmd.CombinedOutput()
			require.NoError(t, err, "%s", out)
		})
	}
}
