package credential

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/99designs/keyring"
)

const (
	serviceName = "todo"
	loginKey    = "login"
)

// Login is a remembered username and password pair.
type Login struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Vault keeps remembered logins in a keyring.
type Vault struct {
	open func() (keyring.Keyring, error)
}

// New returns a Vault backed by the operating system keyring.
func New() *Vault {
	return &Vault{open: openKeyring}
}

// NewWithKeyring returns a Vault backed by ring.
func NewWithKeyring(ring keyring.Keyring) *Vault {
	return &Vault{open: func() (keyring.Keyring, error) { return ring, nil }}
}

// openKeyring returns a configured keyring instance.
func openKeyring() (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/todo/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("todo-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// SaveLogin remembers login, replacing any previous one.
func (v *Vault) SaveLogin(login Login) error {
	ring, err := v.open()
	if err != nil {
		return err
	}

	data, err := json.Marshal(login)
	if err != nil {
		return fmt.Errorf("encoding login: %w", err)
	}

	err = ring.Set(keyring.Item{
		Key:   loginKey,
		Data:  data,
		Label: "todo login for " + login.Username,
	})
	if err != nil {
		return fmt.Errorf("setting credential %q: %w", loginKey, err)
	}

	return nil
}

// LoadLogin returns the remembered login. ok is false when none is stored.
func (v *Vault) LoadLogin() (login Login, ok bool, err error) {
	ring, err := v.open()
	if err != nil {
		return Login{}, false, err
	}

	item, err := ring.Get(loginKey)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return Login{}, false, nil
	}
	if err != nil {
		return Login{}, false, fmt.Errorf("getting credential %q: %w", loginKey, err)
	}

	if err := json.Unmarshal(item.Data, &login); err != nil {
		return Login{}, false, fmt.Errorf("decoding credential %q: %w", loginKey, err)
	}
	return login, true, nil
}

// ForgetLogin removes the remembered login. Nothing stored is not an error.
func (v *Vault) ForgetLogin() error {
	ring, err := v.open()
	if err != nil {
		return err
	}

	err = ring.Remove(loginKey)
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("deleting credential %q: %w", loginKey, err)
	}

	return nil
}
