package account

import (
	"errors"
	"fmt"

	"vdesk/internal/machines"
)

// Account is the persisted identity and endpoint selection.
type Account struct {
	AppID     string `yaml:"appid" toml:"appid"`
	AppSecret string `yaml:"appsecret" toml:"appsecret"`
	URL       string `yaml:"url" toml:"url"`
	Name      string `yaml:"name" toml:"name"`
	Server    string `yaml:"server" toml:"server"`
}

// Credentials converts the account into API client credentials.
func (a Account) Credentials() machines.Credentials {
	return machines.Credentials{
		AppID:     a.AppID,
		AppSecret: a.AppSecret,
		BaseURL:   a.URL,
	}
}

// Validate reports whether the account can be used to build an API client.
func (a Account) Validate() error {
	if err := a.Credentials().Validate(); err != nil {
		return fmt.Errorf("account: %w", err)
	}
	return nil
}

// MaskedSecret returns the secret with all but its last four characters hidden.
func (a Account) MaskedSecret() string {
	const visible = 4
	if a.AppSecret == "" {
		return ""
	}
	runes := []rune(a.AppSecret)
	if len(runes) <= visible {
		return "****"
	}
	return "****" + string(runes[len(runes)-visible:])
}

var (
	errEmptyLabel = errors.New("endpoint label is required")
	errEmptyFile  = errors.New("account file is empty")
)
