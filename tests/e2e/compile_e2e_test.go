package e2e

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"packsmith/tests/testutil"
)

func TestCompileCommandE2E(t *testing.T) {
	root := testutil.RepoRoot(t)
	outDir := t.TempDir()
	packPath := testutil.WritePack(t, outDir, "pack.zip", testutil.SamplePackFiles())

	cmd := exec.Command("go", "run", "./cmd/packsmith", "compile",
		"--pack", packPath,
		"--rules", "fixtures/rules-sample.yaml",
		"--output", filepath.Join(outDir, "compiled.zip"),
		"--report", filepath.Join(outDir, "compile.report.yaml"),
	)
	cmd.Dir = root
	cmd.Env = append(os.Environ(), "GO111MODULE=on")
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))

	require.FileExists(t, filepath.Join(outDir, "compiled.zip"))
	require.FileExists(t, filepath.Join(outDir, "compile.report.yaml"))
}

func TestDiffCommandE2E(t *testing.T) {
	root := testutil.RepoRoot(t)
	outDir := t.TempDir()
	packPath := testutil.WritePack(t, outDir, "pack.zip", testutil.SamplePackFiles())

	cmd := exec.Command("go", "run", "./cmd/packsmith", "diff",
		"--pack", packPath,
		"--rules", "fixtures/rules-sample.yaml",
	)
	cmd.Dir = root
	out, err := cmd.Output()
	require.NoError(t, err)
	require.Contains(t, string(out), "+++ b/data/archive/item/shields/oak.json")
	require.Contains(t, string(out), "# locked mypack:swords/epic")
}

func TestMalformedPackExitCode(t *testing.T) {
	root := testutil.RepoRoot(t)
	outDir := t.TempDir()
	packPath := testutil.WriteFile(t, outDir, "broken.zip", "not a zip")

	cmd := exec.Command("go", "run", "./cmd/packsmith", "inspect", "--pack", packPath)
	cmd.Dir = root
	err := cmd.Run()
	require.Error(t, err)
}
