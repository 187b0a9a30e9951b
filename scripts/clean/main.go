// Package main removes build output, coverage profiles and jsv log files.
package main

import (
	"fmt"
	"os"
	"path/filepath"
)

func main() {
	cleanDirs([]string{"bin"})
	if logFile := os.Getenv("JSV_LOG_FILE"); logFile != "" {
		cleanPatterns([]string{logFile})
	}
	cleanPatterns([]string{"coverage*", "*.out", "*.test", "*.coverprofile", "jsv*.log"})
}

func cleanDirs(dirs []string) {
	for _, dir := range dirs {
		if err := os.RemoveAll(dir); err != nil {
			fmt.Printf("❌ Failed to remove dir %s: %v\n", dir, err)
		} else {
			fmt.Printf("✅ Removed dir %s\n", dir)
		}
	}
}

func cleanPatterns(patterns []string) {
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			fmt.Printf("❌ Failed to glob pattern %s: %v\n", pattern, err)
			continue
		}
		for _, match := range matches {
			if rErr := os.Remove(match); rErr != nil {
				fmt.Printf("❌ Failed to remove %s: %v\n", match, rErr)
			} else {
				fmt.Printf("✅ Removed %s\n", match)
			}
		}
	}
}
