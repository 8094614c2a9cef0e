package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeAPI()
	c.normalizeViewer()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv(accountFileEnv); ok && strings.TrimSpace(value) != "" {
		c.Paths.AccountFile = strings.TrimSpace(value)
	}
	if strings.TrimSpace(c.Paths.AccountFile) == "" {
		c.Paths.AccountFile = defaultAccountFile
	}
	var err error
	if c.Paths.AccountFile, err = expandPath(c.Paths.AccountFile); err != nil {
		return fmt.Errorf("paths.account_file: %w", err)
	}
	if strings.TrimSpace(c.Paths.ArtifactDir) == "" {
		c.Paths.ArtifactDir = os.TempDir()
	}
	if c.Paths.ArtifactDir, err = expandPath(c.Paths.ArtifactDir); err != nil {
		return fmt.Errorf("paths.artifact_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeAPI() {
	if c.API.RequestTimeout == 0 {
		c.API.RequestTimeout = defaultRequestTimeout
	}
	if c.API.UnlockTimeout == 0 {
		c.API.UnlockTimeout = defaultUnlockTimeout
	}
}

func (c *Config) normalizeViewer() {
	c.Viewer.Binary = strings.TrimSpace(c.Viewer.Binary)
	if c.Viewer.Binary != "" {
		if expanded, err := expandPath(c.Viewer.Binary); err == nil {
			c.Viewer.Binary = expanded
		}
	}
	if c.Viewer.Settings == nil {
		c.Viewer.Settings = map[string]string{}
	}
	cleaned := make(map[string]string, len(c.Viewer.Settings))
	for key, value := range c.Viewer.Settings {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		cleaned[key] = value
	}
	c.Viewer.Settings = cleaned
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
