package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"mis-reports/internal/backend"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Backend       backend.Config
	DataPath      string
	LogDir        string
	ExportDir     string
	LogoSource    string
	OrgName       string
	ServerAddr    string
	CompressPDF   bool
	ExportModules []string
}

// Load loads the configuration from .env files and environment variables.
func Load() (*AppConfig, error) {
	// 1. Try to load from the executable's directory first
	exePath, err := os.Executable()
	exeDir := ""
	if err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}

	// 2. Fallback to current working directory (useful for development/go run)
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables or binary-relative .env")
	}

	// 3. Resolve Data Paths
	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		if exeDir != "" {
			dataPath = exeDir
		} else {
			dataPath = "."
		}
	}

	logDir := filepath.Join(dataPath, "logs")
	exportDir := getEnv("EXPORT_DIR", filepath.Join(dataPath, "exports"))

	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.Warn().Err(err).Str("path", logDir).Msg("Failed to create log directory")
	}

	timeoutSecs, _ := strconv.Atoi(getEnv("REPORTS_API_TIMEOUT_SECONDS", "60"))
	cacheSecs, _ := strconv.Atoi(getEnv("REPORTS_CACHE_TTL_SECONDS", "0"))

	cfg := &AppConfig{
		Backend: backend.Config{
			BaseURL:  strings.TrimRight(getEnv("REPORTS_API_URL", "http://localhost:5000/api"), "/"),
			Token:    getEnv("REPORTS_API_TOKEN", ""),
			Timeout:  time.Duration(timeoutSecs) * time.Second,
			CacheTTL: time.Duration(cacheSecs) * time.Second,
		},
		DataPath:      dataPath,
		LogDir:        logDir,
		ExportDir:     exportDir,
		LogoSource:    getEnv("REPORT_LOGO", ""),
		OrgName:       getEnv("REPORT_ORG_NAME", "MIS Reports"),
		ServerAddr:    getEnv("SERVER_ADDR", "127.0.0.1:8080"),
		CompressPDF:   getEnvBool("PDF_COMPRESS", true),
		ExportModules: parseList(getEnv("EXPORT_MODULES", "*")),
	}

	return cfg, nil
}

// CanExport reports whether export actions may be offered for the given module key.
// An empty list or a "*" entry allows every module.
func (c *AppConfig) CanExport(moduleKey string) bool {
	if c == nil {
		return false
	}
	if len(c.ExportModules) == 0 {
		return true
	}
	for _, m := range c.ExportModules {
		if m == "*" || strings.EqualFold(m, moduleKey) {
			return true
		}
	}
	return false
}

func parseList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}
