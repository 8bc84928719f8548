// Package auth resolves the bot token from the configured source.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/schaermu/guildsync/internal/config"
)

// ErrNoToken is returned when the configured source holds no token.
var ErrNoToken = errors.New("no bot token found")

// Token reads the bot token from the token file, the vault secret or the
// environment variable, whichever is configured.
func Token(ctx context.Context, cfg config.DiscordConfig, logger *slog.Logger) (string, error) {
	switch {
	case cfg.TokenFile != "":
		logger.Debug("reading bot token from file", "path", cfg.TokenFile)
		return fromFile(cfg.TokenFile)
	case cfg.Vault.Enabled():
		logger.Debug("reading bot token from vault", "address", cfg.Vault.Address, "mount", cfg.Vault.Mount, "path", cfg.Vault.Path)
		return fromVault(ctx, cfg.Vault, cfg.Timeout)
	case cfg.TokenEnv != "":
		logger.Debug("reading bot token from environment", "variable", cfg.TokenEnv)
		return fromEnv(cfg.TokenEnv)
	default:
		return "", fmt.Errorf("%w: no token source configured", ErrNoToken)
	}
}

func fromFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read token file: %w", err)
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", fmt.Errorf("%w: token file %s is empty", ErrNoToken, path)
	}
	return token, nil
}

func fromEnv(name string) (string, error) {
	token := strings.TrimSpace(os.Getenv(name))
	if token == "" {
		return "", fmt.Errorf("%w: environment variable %s is not set", ErrNoToken, name)
	}
	return token, nil
}
