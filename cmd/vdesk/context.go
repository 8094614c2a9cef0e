package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"vdesk/internal/account"
	"vdesk/internal/config"
	"vdesk/internal/logging"
	"vdesk/internal/machines"
	"vdesk/internal/services"
)

type commandContext struct {
	configFlag *string

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
		c.configExists = exists
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) accountStore() (*account.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return account.NewStore(cfg.Paths.AccountFile), nil
}

// loadAccount reads the account record and checks it is usable.
func (c *commandContext) loadAccount(ctx context.Context) (account.Account, error) {
	store, err := c.accountStore()
	if err != nil {
		return account.Account{}, err
	}
	if !store.Exists() {
		return account.Account{}, fmt.Errorf("account file %s not found; create it with `vdesk account set`", store.Path())
	}
	acct, err := store.Read(ctx)
	if err != nil {
		return account.Account{}, err
	}
	if err := acct.Validate(); err != nil {
		return account.Account{}, services.Wrap(services.ErrConfigFormat, "account", "validate", store.Path(), err)
	}
	return acct, nil
}

func (c *commandContext) apiClient(ctx context.Context) (*machines.Client, error) {
	acct, err := c.loadAccount(ctx)
	if err != nil {
		return nil, err
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	return machines.New(acct.Credentials(),
		machines.WithTimeout(cfg.RequestTimeout()),
		machines.WithLogger(logger),
	)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
