package credential

import (
	"errors"
	"fmt"

	clog "github.com/charmbracelet/log"
	"github.com/zalando/go-keyring"
)

const (
	Service = "unicreate"
	Account = "github-token"
)

// Store persists a single bearer token.
type Store interface {
	Store(token string) error
	// Get returns ok=false when no token is stored.
	Get() (token string, ok bool, err error)
	Clear() error
}

// Keyring is a Store backed by the OS secret store under a fixed service/account pair.
type Keyring struct {
	account string
	log     *clog.Logger
	service string
}

var _ Store = &Keyring{}

func NewKeyring() *Keyring {
	return &Keyring{
		account: Account,
		log:     clog.Default().WithPrefix("credential"),
		service: Service,
	}
}

func (k *Keyring) Store(token string) error {
	if token == "" {
		return errors.New("refusing to store an empty token")
	}
	if err := keyring.Set(k.service, k.account, token); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}
	k.log.Debug("Token stored", "service", k.service)
	return nil
}

func (k *Keyring) Get() (string, bool, error) {
	token, err := keyring.Get(k.service, k.account)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read token: %w", err)
	}
	return token, token != "", nil
}

func (k *Keyring) Clear() error {
	err := keyring.Delete(k.service, k.account)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to clear token: %w", err)
	}
	k.log.Debug("Token cleared", "service", k.service)
	return nil
}

// Source names where a resolved token came from.
type Source string

const (
	SourceNone    Source = "none"
	SourceEnv     Source = "environment"
	SourceKeyring Source = "keyring"
)

// Resolve picks the token to use: an explicit (environment) token wins over the store.
// A store read failure degrades to no token and is logged.
func Resolve(explicit string, store Store) (string, Source) {
	if explicit != "" {
		return explicit, SourceEnv
	}
	if store == nil {
		return "", SourceNone
	}
	token, ok, err := store.Get()
	if err != nil {
		clog.Default().WithPrefix("credential").Warn("could not read stored token", "error", err)
		return "", SourceNone
	}
	if !ok {
		return "", SourceNone
	}
	return token, SourceKeyring
}
