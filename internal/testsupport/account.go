package testsupport

import (
	"context"
	"testing"

	"vdesk/internal/account"
	"vdesk/internal/config"
)

// WriteAccount stores acct at the config's account file and returns the store.
func WriteAccount(t testing.TB, cfg *config.Config, acct account.Account) *account.Store {
	t.Helper()

	store := account.NewStore(cfg.Paths.AccountFile)
	if err := store.Write(context.Background(), acct); err != nil {
		t.Fatalf("write account: %v", err)
	}
	return store
}
