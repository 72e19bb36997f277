package pymeta

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// rootsScript asks the interpreter for every site-packages directory it
// would search, one per line.
const rootsScript = `
import site
paths = list(site.getsitepackages())
try:
    paths.append(site.getusersitepackages())
except Exception:
    pass
print("\n".join(paths))
`

// DefaultRoots discovers the site-packages directories of the active Python
// environment. An activated virtualenv ($VIRTUAL_ENV) takes priority; the
// system interpreter is consulted otherwise. Only existing directories are
// returned.
func DefaultRoots() ([]string, error) {
	if venv := os.Getenv("VIRTUAL_ENV"); venv != "" {
		if roots := venvRoots(venv); len(roots) > 0 {
			return roots, nil
		}
	}

	roots, err := interpreterRoots()
	if err != nil {
		return nil, fmt.Errorf("pymeta: locate site-packages: %w", err)
	}
	if len(roots) == 0 {
		return nil, fmt.Errorf("pymeta: no site-packages directories found")
	}
	return roots, nil
}

// venvRoots globs the virtualenv layout directly so an activated environment
// works even when no python binary is on PATH.
func venvRoots(venv string) []string {
	patterns := []string{
		filepath.Join(venv, "lib", "python*", "site-packages"),
		filepath.Join(venv, "Lib", "site-packages"), // Windows layout
	}
	var roots []string
	for _, pattern := range patterns {
		matches, _ := filepath.Glob(pattern)
		for _, m := range matches {
			if info, err := os.Stat(m); err == nil && info.IsDir() {
				roots = append(roots, m)
			}
		}
	}
	return roots
}

// interpreterRoots shells out to the first available interpreter and asks it
// for its site-packages search path.
func interpreterRoots() ([]string, error) {
	var lastErr error
	for _, python := range []string{"python3", "python"} {
		cmd := exec.Command(python, "-c", rootsScript)
		var stdout bytes.Buffer
		cmd.Stdout = &stdout
		if err := cmd.Run(); err != nil {
			lastErr = fmt.Errorf("%s: %w", python, err)
			continue
		}
		var roots []string
		for _, line := range strings.Split(stdout.String(), "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if info, err := os.Stat(line); err == nil && info.IsDir() {
				roots = append(roots, line)
			}
		}
		return roots, nil
	}
	return nil, lastErr
}
