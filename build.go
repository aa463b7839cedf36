//go:build ignore

// build.go - aqseries build script
// Usage: go run build.go [-target=TARGET] [-v]
// Targets: build, test, release, clean

package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

const (
	module  = "aqseries"
	command = "aqserver"
)

var (
	rootDir string
	distDir string

	// Release platforms as GOOS/GOARCH
	platforms = []string{"linux/amd64", "linux/arm64", "darwin/arm64", "windows/amd64"}

	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorGreen = "\033[32m"
	colorBlue  = "\033[34m"
	colorCyan  = "\033[36m"
)

func init() {
	cwd, err := os.Getwd()
	if err != nil {
		panic(fmt.Sprintf("Failed to get current directory: %v", err))
	}
	rootDir = cwd
	distDir = filepath.Join(rootDir, "dist")

	if _, err := os.Stat(filepath.Join(rootDir, "go.mod")); os.IsNotExist(err) {
		panic(fmt.Sprintf("go.mod not found in %s; run from the module root", rootDir))
	}
}

func main() {
	target := flag.String("target", "build", "Build target")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	printHeader()
	startTime := time.Now()

	switch *target {
	case "build":
		buildExecutable("", "", *verbose)
	case "test":
		runTests(*verbose)
	case "release":
		buildRelease(*verbose)
	case "clean":
		clean()
	default:
		showHelp()
		os.Exit(1)
	}

	printSuccess(fmt.Sprintf("Done in %s", time.Since(startTime).Round(time.Millisecond)))
}

func printHeader() {
	fmt.Println(colorCyan + "===========================================" + colorReset)
	fmt.Println(colorCyan + "       aqseries - Build System" + colorReset)
	fmt.Println(colorCyan + "===========================================" + colorReset)
	fmt.Println()
}

func printInfo(msg string) {
	fmt.Printf("%s[INFO]%s %s\n", colorBlue, colorReset, msg)
}

func printSuccess(msg string) {
	fmt.Printf("%s[SUCCESS]%s %s\n", colorGreen, colorReset, msg)
}

func printError(msg string) {
	fmt.Printf("%s[ERROR]%s %s\n", colorRed, colorReset, msg)
}

// ldflags stamps the build time and commit into pkg/contracts
func ldflags() string {
	return fmt.Sprintf("-s -w -X %s/pkg/contracts.BuildTime=%s -X %s/pkg/contracts.GitCommit=%s",
		module, time.Now().UTC().Format(time.RFC3339), module, gitCommit())
}

func gitCommit() string {
	out, err := exec.Command("git", "rev-parse", "--short", "HEAD").Output()
	if err != nil {
		return "unknown"
	}
	return strings.TrimSpace(string(out))
}

// buildExecutable builds cmd/aqserver for goos/goarch; empty values mean the host
func buildExecutable(goos, goarch string, verbose bool) {
	name := command
	if goos != "" {
		name = fmt.Sprintf("%s-%s-%s", command, goos, goarch)
	}
	if goos == "windows" {
		name += ".exe"
	}
	outputPath := filepath.Join(distDir, name)

	printInfo(fmt.Sprintf("Building %s...", name))

	args := []string{"build"}
	if verbose {
		args = append(args, "-v")
	}
	args = append(args, "-ldflags", ldflags(), "-o", outputPath, "./cmd/"+command)

	cmd := exec.Command("go", args...)
	cmd.Dir = rootDir
	cmd.Env = append(os.Environ(), "CGO_ENABLED=0")
	if goos != "" {
		cmd.Env = append(cmd.Env, "GOOS="+goos, "GOARCH="+goarch)
	}
	cmd.Stderr = os.Stderr
	if verbose {
		fmt.Printf("Running: go %s\n", strings.Join(args, " "))
		cmd.Stdout = os.Stdout
	}

	if err := cmd.Run(); err != nil {
		printError(fmt.Sprintf("Failed to build %s: %v", name, err))
		os.Exit(1)
	}

	if info, err := os.Stat(outputPath); err == nil {
		printSuccess(fmt.Sprintf("Built %s (%.1f MB)", name, float64(info.Size())/1024/1024))
	}
}

func runTests(verbose bool) {
	printInfo("Running Go tests...")
	args := []string{"test", "-race"}
	if verbose {
		args = append(args, "-v")
	}
	args = append(args, "./...")

	cmd := exec.Command("go", args...)
	cmd.Dir = rootDir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		printError(fmt.Sprintf("Go tests failed: %v", err))
		os.Exit(1)
	}
	printSuccess("All tests passed")
}

func buildRelease(verbose bool) {
	printInfo("Building release binaries...")
	clean()

	for _, p := range platforms {
		goos, goarch, _ := strings.Cut(p, "/")
		buildExecutable(goos, goarch, verbose)
	}

	versionFile := filepath.Join(distDir, "VERSION.txt")
	content := fmt.Sprintf("%s %s\nBuilt: %s\n", command, gitCommit(), time.Now().Format("2006-01-02 15:04:05"))
	if err := os.WriteFile(versionFile, []byte(content), 0644); err != nil {
		printError(fmt.Sprintf("Failed to write %s: %v", versionFile, err))
	}
}

func clean() {
	printInfo("Cleaning build artifacts...")
	if err := os.RemoveAll(distDir); err != nil {
		printError(fmt.Sprintf("Failed to clean dist directory: %v", err))
		return
	}
	if err := os.MkdirAll(distDir, 0755); err != nil {
		printError(fmt.Sprintf("Failed to create dist directory: %v", err))
	}
}

func showHelp() {
	fmt.Println("Usage: go run build.go -target=TARGET [-v]")
	fmt.Println()
	fmt.Println("Targets:")
	fmt.Println("  build     Build aqserver for the host into dist/")
	fmt.Println("  test      Run go test -race ./...")
	fmt.Println("  release   Cross-compile aqserver for all release platforms")
	fmt.Println("  clean     Remove dist/")
}
