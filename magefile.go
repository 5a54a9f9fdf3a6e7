//go:build mage
// +build mage

package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

var (
	binDir = "bin"
	tmpDir = "tmp"
)

// binaries built by Build, by output name.
var binaries = map[string]string{
	"silicon-web":   "./cmd/web",
	"silicon-admin": "./cmd/admin",
	"mockenquiry":   "./cmd/tools/mockenquiry",
}

var Default = Run

// Run starts the web server with the local .env.
func Run() error {
	fmt.Println("Running (go run) on", envOr("HTTP_ADDR", ":8080"), "...")
	return sh.RunV("go", "run", "./cmd/web")
}

// MockBackend serves a fake enquiry backend on :9090; point BACKEND_API_URL at it.
func MockBackend() error {
	return sh.RunV("go", "run", "./cmd/tools/mockenquiry", "serve")
}

// Admin runs the admin CLI; pass arguments through ADMIN_ARGS.
func Admin() error {
	args := append([]string{"run", "./cmd/admin"}, strings.Fields(os.Getenv("ADMIN_ARGS"))...)
	return sh.RunV("go", args...)
}

func Build() error {
	mg.Deps(Tidy)

	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return err
	}
	env := map[string]string{"CGO_ENABLED": "0"}
	for name, pkg := range binaries {
		out := filepath.Join(binDir, name+exeSuffix())
		fmt.Println("Building:", out)
		if err := sh.RunWithV(env, "go", "build", "-trimpath", "-o", out, pkg); err != nil {
			return err
		}
	}
	return nil
}

func Test() error {
	fmt.Println("Testing...")
	return sh.RunV("go", "test", "./...", "-count=1")
}

func TestRace() error {
	fmt.Println("Testing with -race...")
	if runtime.GOOS == "windows" {
		fmt.Println("Note: -race on Windows may be unsupported depending on your Go toolchain.")
	}
	return sh.RunV("go", "test", "./...", "-race", "-count=1")
}

// Cover writes tmp/cover.out and prints the per-function summary.
func Cover() error {
	if err := os.MkdirAll(tmpDir, 0o755); err != nil {
		return err
	}
	out := filepath.Join(tmpDir, "cover.out")
	if err := sh.RunV("go", "test", "./...", "-count=1", "-coverprofile="+out); err != nil {
		return err
	}
	return sh.RunV("go", "tool", "cover", "-func="+out)
}

func Fmt() error {
	fmt.Println("Formatting...")
	return sh.RunV("gofmt", "-w", "./cmd", "./internal", "./pkg", "./magefile.go")
}

func Lint() error {
	fmt.Println("Linting (golangci-lint)...")
	if _, err := exec.LookPath("golangci-lint"); err != nil {
		return fmt.Errorf("golangci-lint not found. Install with: mage Tools")
	}
	return sh.RunV("golangci-lint", "run", "--timeout=3m", "./...")
}

func Check() error {
	mg.Deps(Fmt, Lint, Test)
	fmt.Println("Check OK.")
	return nil
}

func Tidy() error {
	fmt.Println("Tidying go.mod/go.sum...")
	return sh.RunV("go", "mod", "tidy")
}

func Clean() error {
	fmt.Println("Cleaning...")
	_ = os.RemoveAll(binDir)
	_ = os.RemoveAll(tmpDir)
	return nil
}

// Tools installs golangci-lint.
func Tools() error {
	fmt.Println("Installing golangci-lint...")
	return sh.RunV("go", "install", "github.com/golangci/golangci-lint/v2/cmd/golangci-lint@latest")
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func exeSuffix() string {
	if runtime.GOOS == "windows" {
		return ".exe"
	}
	return ""
}
