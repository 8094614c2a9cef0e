package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateAPI(); err != nil {
		return err
	}
	if err := c.validateViewer(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateAPI() error {
	if c.API.RequestTimeout < 0 {
		return errors.New("api.request_timeout must not be negative")
	}
	if c.API.UnlockTimeout < 0 {
		return errors.New("api.unlock_timeout must not be negative")
	}
	return nil
}

func (c *Config) validateViewer() error {
	for key, value := range c.Viewer.Settings {
		if strings.ContainsAny(key, "=\r\n[]") {
			return fmt.Errorf("viewer.settings: invalid key %q", key)
		}
		if strings.ContainsAny(value, "\r\n") {
			return fmt.Errorf("viewer.settings.%s: value must be a single line", key)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (want console or json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
