// Package main builds the jsv binary into bin/, stamping it with the version
// git describes.
package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

const versionVar = "github.com/andyballingall/json-schema-validator/internal/app.Version"

func main() {
	binaryName := "jsv"
	if runtime.GOOS == "windows" {
		binaryName += ".exe"
	}

	version := gitVersion()
	ldflags := fmt.Sprintf("-X %s=%s", versionVar, version)

	if err := os.MkdirAll("bin", 0o755); err != nil {
		fmt.Printf("❌ Failed to create bin directory: %v\n", err)
		os.Exit(1)
	}

	outputPath := filepath.Join("bin", binaryName)
	fmt.Printf("Building %s...\n", version)

	cmd := exec.CommandContext(context.Background(), "go", "build", "-ldflags", ldflags, "-o", outputPath, "./cmd/jsv")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		fmt.Printf("❌ Build failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Build complete: %s\n", outputPath)
}

// gitVersion describes HEAD, falling back to "dev" outside a repository.
func gitVersion() string {
	cmd := exec.CommandContext(context.Background(), "git", "describe", "--tags", "--always", "--dirty")
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return "dev"
	}
	return strings.TrimSpace(out.String())
}
