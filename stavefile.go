//go:build stave

package main

import (
	"cmp"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/yaklabco/stave/pkg/sh"
	"github.com/yaklabco/stave/pkg/st"
	"github.com/yaklabco/stave/pkg/target"
)

const (
	binary    = "bin/furigana"
	mainPkg   = "./cmd/furigana"
	coverFile = "coverage.out"
)

// Default target runs build.
var Default = Build

// Aliases for common targets.
var Aliases = map[string]any{
	"b":  Build,
	"t":  Test.Default,
	"l":  Lint.Default,
	"c":  Check,
	"i":  Install,
	"bb": Bench.Default,
}

type (
	Test  st.Namespace
	Lint  st.Namespace
	CI    st.Namespace
	Bench st.Namespace
)

// Build compiles bin/furigana when sources changed since the last build.
func Build() error {
	stale, err := target.Dir(binary, "cmd/", "pkg/", "internal/", "go.mod")
	if err != nil {
		return err
	}
	if !stale {
		fmt.Println(binary, "is up to date")
		return nil
	}
	return goCmd("build", "-ldflags", ldflags(), "-o", binary, mainPkg)
}

// Install runs go install for the furigana command.
func Install() error {
	return goCmd("install", "-ldflags", ldflags(), mainPkg)
}

// Check formats, lints and tests.
func Check() {
	st.SerialDeps(Lint.Fmt, Lint.Default, Test.Default)
}

// Clean removes build and coverage output.
func Clean() error {
	for _, path := range []string{"bin", coverFile, "coverage.html"} {
		if err := sh.Rm(path); err != nil {
			return err
		}
	}
	return nil
}

// Tidy downloads modules and tidies go.mod.
func Tidy() error {
	if err := goCmd("mod", "download"); err != nil {
		return err
	}
	return goCmd("mod", "tidy")
}

// Default runs every test with the race detector and writes coverage.out.
func (Test) Default() error {
	return gotestsum("pkgname-and-test-fails", "-race", "-coverprofile="+coverFile, "-covermode=atomic", "./...")
}

// Engine runs the annotation engine, attributed text and edit tests.
func (Test) Engine() error {
	return gotestsum("testname", "-race", "./pkg/furigana/...", "./pkg/attributed/...", "./pkg/fix/...")
}

// CLI runs the command integration tests.
func (Test) CLI() error {
	return gotestsum("testname", "-race", "./internal/cli/...")
}

// Cover renders coverage.out as HTML.
func (Test) Cover() error {
	st.Deps(Test.Default)
	return goCmd("tool", "cover", "-html="+coverFile, "-o", "coverage.html")
}

// Default runs golangci-lint with fixes applied.
func (Lint) Default() error {
	return sh.RunV("golangci-lint", "run", "--fix", "./...")
}

// Fmt formats all Go files.
func (Lint) Fmt() error {
	return sh.RunV("gofmt", "-w", ".")
}

// Vet runs go vet.
func (Lint) Vet() error {
	return goCmd("vet", "./...")
}

// Gate fails on unformatted files, vet or lint findings, and test failures.
func (CI) Gate() error {
	unformatted, err := sh.Output("gofmt", "-l", ".")
	if err != nil {
		return fmt.Errorf("gofmt: %w", err)
	}
	if unformatted != "" {
		return fmt.Errorf("unformatted files:\n%s", unformatted)
	}
	if err := sh.RunV("golangci-lint", "run", "./..."); err != nil {
		return err
	}
	st.SerialDeps(Lint.Vet, Build, Test.Default, CI.Cross)
	return nil
}

// Cross builds the command for each release target without cgo.
func (CI) Cross() error {
	for _, platform := range []string{"linux/amd64", "linux/arm64", "darwin/arm64", "windows/amd64"} {
		goos, goarch, _ := strings.Cut(platform, "/")
		env := map[string]string{"GOOS": goos, "GOARCH": goarch, "CGO_ENABLED": "0"}
		fmt.Println("building", platform)
		if err := sh.RunWith(env, "go", "build", "-o", os.DevNull, mainPkg); err != nil {
			return fmt.Errorf("build %s: %w", platform, err)
		}
	}
	return nil
}

// Default runs the engine and layout benchmarks.
func (Bench) Default() error {
	return goCmd("test", "-run=^$", "-bench=.", "-benchmem",
		"./pkg/furigana/...", "./pkg/attributed/...", "./pkg/layout/...")
}

func goCmd(args ...string) error {
	return sh.RunV("go", args...)
}

func gotestsum(format string, args ...string) error {
	procs := cmp.Or(os.Getenv("STAVE_NUM_PROCESSORS"), "4")
	cmdArgs := append([]string{"tool", "gotestsum", "-f", format, "--", "-p", procs, "-parallel", procs}, args...)
	return goCmd(cmdArgs...)
}

// ldflags injects version, commit and build date into main.
func ldflags() string {
	git := func(args ...string) string {
		out, err := sh.Output("git", args...)
		if err != nil {
			return ""
		}
		return strings.TrimSpace(out)
	}
	return fmt.Sprintf("-X main.version=%s -X main.commit=%s -X main.date=%s",
		cmp.Or(git("describe", "--tags", "--always", "--dirty"), "dev"),
		cmp.Or(git("rev-parse", "--short", "HEAD"), "none"),
		time.Now().UTC().Format(time.RFC3339),
	)
}
