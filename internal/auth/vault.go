package auth

import (
	"context"
	"fmt"
	"time"

	vaultapi "github.com/hashicorp/vault/api"

	"github.com/schaermu/guildsync/internal/config"
)

// fromVault reads a field of a KV v2 secret. The vault token is taken from
// the environment (VAULT_TOKEN) by the vault client.
func fromVault(ctx context.Context, cfg config.VaultConfig, timeout time.Duration) (string, error) {
	vaultCfg := vaultapi.DefaultConfig()
	vaultCfg.Address = cfg.Address
	if timeout > 0 {
		vaultCfg.Timeout = timeout
	}

	client, err := vaultapi.NewClient(vaultCfg)
	if err != nil {
		return "", fmt.Errorf("create vault client: %w", err)
	}

	secret, err := client.KVv2(cfg.Mount).Get(ctx, cfg.Path)
	if err != nil {
		return "", fmt.Errorf("read vault secret %s/%s: %w", cfg.Mount, cfg.Path, err)
	}

	raw, ok := secret.Data[cfg.Field]
	if !ok {
		return "", fmt.Errorf("%w: vault secret %s/%s has no field %s", ErrNoToken, cfg.Mount, cfg.Path, cfg.Field)
	}
	token, ok := raw.(string)
	if !ok || token == "" {
		return "", fmt.Errorf("%w: vault field %s is not a non-empty string", ErrNoToken, cfg.Field)
	}
	return token, nil
}
