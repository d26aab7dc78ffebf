package config

import (
	"bufio"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// loadEnvFile populates the process environment from a local env file.
// godotenv does the heavy lifting; when it fails (malformed file, odd
// encoding) a minimal line parser takes over so a broken .env never blocks
// startup. Variables already present in the environment are never overridden.
func loadEnvFile(path string) {
	if err := godotenv.Load(path); err == nil {
		return
	}
	parseEnvFile(path)
}

// parseEnvFile reads key=value lines, skipping blanks and # comments and
// stripping surrounding quotes. Keys already set in the environment keep
// their value.
func parseEnvFile(path string) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, val, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		val = strings.TrimSpace(val)
		val = strings.Trim(val, `"`)
		val = strings.Trim(val, `'`)
		if key == "" {
			continue
		}
		if _, exists := os.LookupEnv(key); !exists {
			os.Setenv(key, val)
		}
	}
}
