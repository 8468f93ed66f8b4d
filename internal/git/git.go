package git

import (
	"os/exec"
	"strings"
)

// Exposure describes how the vault file relates to a surrounding git
// repository.
type Exposure struct {
	IsRepo       bool
	VaultTracked bool // vault file committed or staged (bad)
	VaultIgnored bool // vault file matched by .gitignore (good)
}

// IsRepo checks if the directory is inside a git work tree
func IsRepo(workDir string) bool {
	cmd := exec.Command("git", "rev-parse", "--is-inside-work-tree")
	cmd.Dir = workDir
	return cmd.Run() == nil
}

// IsTracked checks if a file is tracked by git
func IsTracked(workDir, path string) bool {
	cmd := exec.Command("git", "ls-files", "--", path)
	cmd.Dir = workDir
	output, err := cmd.Output()
	if err != nil {
		return false
	}
	return len(strings.TrimSpace(string(output))) > 0
}

// IsIgnored checks if a file is ignored by git (handles all .gitignore files)
func IsIgnored(workDir, path string) bool {
	cmd := exec.Command("git", "check-ignore", "-q", "--", path)
	cmd.Dir = workDir
	// git check-ignore returns exit code 0 if the file is ignored
	return cmd.Run() == nil
}

// CheckExposure reports the git status of the vault file at vaultPath,
// relative to workDir.
func CheckExposure(workDir, vaultPath string) *Exposure {
	exp := &Exposure{}
	if !IsRepo(workDir) {
		return exp
	}
	exp.IsRepo = true
	exp.VaultTracked = IsTracked(workDir, vaultPath)
	exp.VaultIgnored = IsIgnored(workDir, vaultPath)
	return exp
}
