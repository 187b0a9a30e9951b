// Package main provides a script to run tests and check coverage.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strconv"
	"strings"
)

// defaultMinCoverage is the total statement coverage a --check run demands.
const defaultMinCoverage = 85.0

// weakest is how many of the least covered functions a failed check lists.
const weakest = 15

func main() {
	testArgs, cfg := parseFlags(os.Args[1:])

	if cfg.isCoverageRun() {
		testArgs = setupCoverage(testArgs, cfg)
	}

	_, err := exec.LookPath("gotestsum")
	if err == nil && !cfg.isCoverageRun() {
		runCommand("gotestsum", append([]string{"--"}, testArgs...))
	} else {
		runCommand("go", append([]string{"test"}, testArgs...))
	}

	handlePostTest(cfg)
}

type testerConfig struct {
	checkCoverage bool
	showSummary   bool
	openBrowser   bool
	generateBadge bool
	coverageFile  string
	minCoverage   float64
}

func (c *testerConfig) isCoverageRun() bool {
	return c.checkCoverage || c.showSummary || c.openBrowser || c.generateBadge
}

func parseFlags(args []string) ([]string, *testerConfig) {
	var testArgs []string
	cfg := &testerConfig{minCoverage: defaultMinCoverage}

	for _, arg := range args {
		switch {
		case arg == "--check":
			cfg.checkCoverage = true
		case strings.HasPrefix(arg, "--min="):
			v, err := strconv.ParseFloat(strings.TrimPrefix(arg, "--min="), 64)
			if err != nil {
				fmt.Printf("❌ Invalid --min value: %v\n", err)
				os.Exit(1)
			}
			cfg.checkCoverage = true
			cfg.minCoverage = v
		case arg == "--summary":
			cfg.showSummary = true
		case arg == "--browser":
			cfg.openBrowser = true
		case arg == "--badge":
			cfg.generateBadge = true
		case strings.HasPrefix(arg, "-coverprofile="):
			cfg.coverageFile = strings.TrimPrefix(arg, "-coverprofile=")
			testArgs = append(testArgs, arg)
		default:
			testArgs = append(testArgs, arg)
		}
	}
	if len(testArgs) == 0 || strings.HasPrefix(testArgs[len(testArgs)-1], "-") {
		testArgs = append(testArgs, "./...")
	}
	return testArgs, cfg
}

func setupCoverage(testArgs []string, cfg *testerConfig) []string {
	if cfg.coverageFile == "" {
		cfg.coverageFile = "coverage.out"
		testArgs = append([]string{"-coverprofile=" + cfg.coverageFile}, testArgs...)
	}
	for _, arg := range testArgs {
		if strings.HasPrefix(arg, "-coverpkg") {
			return testArgs
		}
	}
	// The facade package and everything under internal/
	return append([]string{"-coverpkg=.,./internal/..."}, testArgs...)
}

func handlePostTest(cfg *testerConfig) {
	switch {
	case cfg.checkCoverage:
		checkCoverage(cfg.coverageFile, cfg.minCoverage)
	case cfg.showSummary:
		runCommand("go", []string{"tool", "cover", "-func", cfg.coverageFile})
	case cfg.openBrowser:
		runCommand("go", []string{"tool", "cover", "-html", cfg.coverageFile})
	case cfg.generateBadge:
		generateCoverageBadge(cfg.coverageFile)
	}
}

func runCommand(name string, args []string) {
	cmd := exec.CommandContext(context.Background(), name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		fmt.Printf("❌ Command failed: %v\n", err)
		os.Exit(1)
	}
}

func coverFunc(coverageFile string) []byte {
	cmd := exec.CommandContext(context.Background(), "go", "tool", "cover", "-func", coverageFile)
	output, err := cmd.Output()
	if err != nil {
		fmt.Printf("❌ Error running go tool cover: %v\n", err)
		os.Exit(1)
	}
	return output
}

func checkCoverage(coverageFile string, minCoverage float64) {
	funcs, total := parseCoverageOutput(coverFunc(coverageFile))
	if total < 0 {
		fmt.Println("❌ Could not find total coverage in output")
		os.Exit(1)
	}

	if total < minCoverage {
		fmt.Printf("\n❌ Coverage %.1f%% is below the required %.1f%%. Least covered functions:\n", total, minCoverage)
		sort.SliceStable(funcs, func(i, j int) bool { return funcs[i].percent < funcs[j].percent })
		for _, f := range funcs[:min(weakest, len(funcs))] {
			fmt.Printf("  %6.1f%%  %s\n", f.percent, f.name)
		}
		os.Exit(1)
	}
	fmt.Printf("✅ Coverage check passed: %.1f%% (minimum %.1f%%)\n", total, minCoverage)
}

func generateCoverageBadge(coverageFile string) {
	_, percentage := parseCoverageOutput(coverFunc(coverageFile))
	if percentage < 0 {
		fmt.Println("❌ Could not find total coverage in output")
		os.Exit(1)
	}
	percentageStr := fmt.Sprintf("%.1f%%", percentage)

	colour := "#e05d44" // red
	switch {
	case percentage >= 95:
		colour = "#4c1" // green
	case percentage >= 90:
		colour = "#a4a61d" // yellowgreen
	case percentage >= 80:
		colour = "#dfb317" // yellow
	case percentage >= 70:
		colour = "#fe7d37" // orange
	}

	//nolint:misspell // SVG uses stop-color
	svg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="104" height="20">
  <linearGradient id="b" x2="0" y2="100%%">
    <stop offset="0" stop-color="#bbb" stop-opacity=".1"/>
    <stop offset="1" stop-opacity=".1"/>
  </linearGradient>
  <mask id="a"><rect width="104" height="20" rx="3" fill="#fff"/></mask>
  <g mask="url(#a)">
    <path fill="#555" d="M0 0h67v20H0z"/>
    <path fill="%s" d="M67 0h37v20H67z"/>
    <path fill="url(#b)" d="M0 0h104v20H0z"/>
  </g>
  <g fill="#fff" text-anchor="middle" font-family="DejaVu Sans,Verdana,Geneva,sans-serif" font-size="11">
    <text x="33.5" y="15" fill="#010101" fill-opacity=".3">coverage</text>
    <text x="33.5" y="14">coverage</text>
    <text x="84.5" y="15" fill="#010101" fill-opacity=".3">%s</text>
    <text x="84.5" y="14">%s</text>
  </g>
</svg>`, colour, percentageStr, percentageStr)

	if err := os.WriteFile("coverage.svg", []byte(svg), 0o600); err != nil {
		fmt.Printf("❌ Error writing coverage.svg: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ Coverage badge generated: coverage.svg (%s)\n", percentageStr)
}

type funcCoverage struct {
	name    string
	percent float64
}

// parseCoverageOutput reads `go tool cover -func` output. total is negative
// when the output has no total line.
func parseCoverageOutput(output []byte) (funcs []funcCoverage, total float64) {
	total = -1
	scanner := bufio.NewScanner(strings.NewReader(string(output)))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}
		pct, err := strconv.ParseFloat(strings.TrimSuffix(fields[len(fields)-1], "%"), 64)
		if err != nil {
			continue
		}
		if fields[0] == "total:" {
			total = pct
			continue
		}
		// Entry points are exercised by the testscript binary, not the profile
		if strings.Contains(fields[0], "main.go") && fields[1] == "main" {
			continue
		}
		funcs = append(funcs, funcCoverage{name: fields[0] + " " + fields[1], percent: pct})
	}
	return funcs, total
}
