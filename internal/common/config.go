package common

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	Mail    MailConfig
	Paths   PathConfig
	OCR     OCRConfig
	Match   MatchConfig
	History HistoryConfig
}

// MailConfig holds message-store configuration. Folder paths use
// Outlook-style backslash-delimited mailbox notation relative to the
// store root; the keys are store-agnostic (scan_folder rather than
// outlook_scan_folder) so a directory tree or a real mailbox can sit
// behind them.
type MailConfig struct {
	Root            string // store root directory
	ScanFolder      string // backslash-delimited path, e.g. `Inbox\Scannedpdfs`
	ProcessedFolder string // backslash-delimited path, e.g. `Inbox\processedscans`
}

// PathConfig holds filesystem placement configuration
type PathConfig struct {
	TempFolder  string
	DestRoot    string
	RenameFiles bool
}

// OCRConfig holds OCR-related configuration
type OCRConfig struct {
	Language string
	DPI      int
	MaxPages int
}

// MatchConfig holds field-matching configuration
type MatchConfig struct {
	DocPrefix string // organizational document-number prefix, e.g. "MSP"
}

// HistoryConfig holds run-history persistence configuration
type HistoryConfig struct {
	DSN string // empty disables history
}

// fileConfig mirrors the JSON config file shape. Pointers distinguish
// absent from zero.
type fileConfig struct {
	MailRoot        *string `json:"mail_root"`
	ScanFolder      *string `json:"scan_folder"`
	ProcessedFolder *string `json:"processed_folder"`
	TempFolder      *string `json:"temp_folder"`
	DestRoot        *string `json:"dest_root"`
	OCRLanguage     *string `json:"ocr_language"`
	OCRDPI          *int    `json:"ocr_dpi"`
	OCRMaxPages     *int    `json:"ocr_max_pages"`
	RenameFiles     *bool   `json:"rename_files"`
	DocPrefix       *string `json:"doc_prefix"`
	HistoryDSN      *string `json:"history_dsn"`
}

// LoadConfig builds configuration from defaults, an optional JSON config
// file, and environment variables, in that order (env wins).
func LoadConfig(configPath string) (*Config, error) {
	cfg := &Config{
		Mail: MailConfig{
			ScanFolder:      `Inbox\Scannedpdfs`,
			ProcessedFolder: `Inbox\processedscans`,
		},
		Paths: PathConfig{
			TempFolder:  filepath.Join(os.TempDir(), "invoice-sorter"),
			RenameFiles: true,
		},
		OCR: OCRConfig{
			Language: "eng",
			DPI:      300,
		},
		Match: MatchConfig{
			DocPrefix: "MSP",
		},
	}

	if configPath != "" {
		if err := cfg.applyFile(configPath); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return NewAppError("CONFIG_ERROR", fmt.Sprintf("read config file %q", path), err)
	}
	if err := ValidateConfigJSON(raw); err != nil {
		return NewAppError("CONFIG_ERROR", fmt.Sprintf("config file %q", path), err)
	}
	var fc fileConfig
	if err := json.Unmarshal(raw, &fc); err != nil {
		return NewAppError("CONFIG_ERROR", fmt.Sprintf("parse config file %q", path), err)
	}

	setString(&c.Mail.Root, fc.MailRoot)
	setString(&c.Mail.ScanFolder, fc.ScanFolder)
	setString(&c.Mail.ProcessedFolder, fc.ProcessedFolder)
	setString(&c.Paths.TempFolder, fc.TempFolder)
	setString(&c.Paths.DestRoot, fc.DestRoot)
	setString(&c.OCR.Language, fc.OCRLanguage)
	setString(&c.Match.DocPrefix, fc.DocPrefix)
	setString(&c.History.DSN, fc.HistoryDSN)
	if fc.OCRDPI != nil {
		c.OCR.DPI = *fc.OCRDPI
	}
	if fc.OCRMaxPages != nil {
		c.OCR.MaxPages = *fc.OCRMaxPages
	}
	if fc.RenameFiles != nil {
		c.Paths.RenameFiles = *fc.RenameFiles
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Mail.Root = getEnv("SORTER_MAIL_ROOT", c.Mail.Root)
	c.Mail.ScanFolder = getEnv("SORTER_SCAN_FOLDER", c.Mail.ScanFolder)
	c.Mail.ProcessedFolder = getEnv("SORTER_PROCESSED_FOLDER", c.Mail.ProcessedFolder)
	c.Paths.TempFolder = getEnv("SORTER_TEMP_FOLDER", c.Paths.TempFolder)
	c.Paths.DestRoot = getEnv("SORTER_DEST_ROOT", c.Paths.DestRoot)
	c.Paths.RenameFiles = getEnvAsBool("SORTER_RENAME_FILES", c.Paths.RenameFiles)
	c.OCR.Language = getEnv("SORTER_OCR_LANGUAGE", c.OCR.Language)
	c.OCR.DPI = getEnvAsInt("SORTER_OCR_DPI", c.OCR.DPI)
	c.OCR.MaxPages = getEnvAsInt("SORTER_OCR_MAX_PAGES", c.OCR.MaxPages)
	c.Match.DocPrefix = getEnv("SORTER_DOC_PREFIX", c.Match.DocPrefix)
	c.History.DSN = getEnv("SORTER_HISTORY_DSN", c.History.DSN)
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Mail.Root == "" {
		return NewAppError("CONFIG_ERROR", "mail_root is required", ErrInvalidInput)
	}
	if c.Paths.DestRoot == "" {
		return NewAppError("CONFIG_ERROR", "dest_root is required", ErrInvalidInput)
	}
	if c.Mail.ScanFolder == "" {
		return NewAppError("CONFIG_ERROR", "scan_folder is required", ErrInvalidInput)
	}
	if c.Mail.ProcessedFolder == "" {
		return NewAppError("CONFIG_ERROR", "processed_folder is required", ErrInvalidInput)
	}
	if c.OCR.DPI <= 0 {
		return NewAppError("CONFIG_ERROR", "ocr_dpi must be positive", ErrInvalidInput)
	}
	if c.OCR.MaxPages < 0 {
		return NewAppError("CONFIG_ERROR", "ocr_max_pages must not be negative", ErrInvalidInput)
	}
	if c.Match.DocPrefix == "" {
		return NewAppError("CONFIG_ERROR", "doc_prefix is required", ErrInvalidInput)
	}
	return nil
}
