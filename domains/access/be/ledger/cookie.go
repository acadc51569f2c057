package ledger

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/sessions"
)

const valueKey = "ledger"

// CookieConfig controls the ledger cookie.
type CookieConfig struct {
	HashKey  []byte
	BlockKey []byte
	Path     string
	Domain   string
	MaxAge   int
	Secure   bool
}

// Cookies persists the ledger in a signed, encrypted browser cookie.
type Cookies struct {
	store sessions.Store
}

// NewCookies builds the cookie store. HashKey is required.
func NewCookies(cfg CookieConfig) (*Cookies, error) {
	if len(cfg.HashKey) == 0 {
		return nil, fmt.Errorf("ledger cookie hash key is required")
	}
	switch len(cfg.BlockKey) {
	case 0, 16, 24, 32:
	default:
		return nil, fmt.Errorf("ledger cookie block key must be 16, 24 or 32 bytes, got %d", len(cfg.BlockKey))
	}
	if cfg.Path == "" {
		cfg.Path = "/"
	}
	if cfg.MaxAge == 0 {
		cfg.MaxAge = 86400 * 30
	}

	var keyPairs [][]byte
	if len(cfg.BlockKey) > 0 {
		keyPairs = [][]byte{cfg.HashKey, cfg.BlockKey}
	} else {
		keyPairs = [][]byte{cfg.HashKey}
	}
	store := sessions.NewCookieStore(keyPairs...)
	store.Options = &sessions.Options{
		Path:     cfg.Path,
		Domain:   cfg.Domain,
		MaxAge:   cfg.MaxAge,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &Cookies{store: store}, nil
}

// Bind returns a Store scoped to one request/response pair. Save and Clear must
// run before the response header is written.
func (c *Cookies) Bind(w http.ResponseWriter, r *http.Request) Store {
	return &cookieStore{store: c.store, w: w, r: r}
}

type cookieStore struct {
	store sessions.Store
	w     http.ResponseWriter
	r     *http.Request
}

func (s *cookieStore) session() *sessions.Session {
	session, err := s.store.Get(s.r, StorageKey)
	if err != nil {
		// corrupted or rotated keys: start over
		session, _ = s.store.New(s.r, StorageKey)
	}
	return session
}

func (s *cookieStore) Load() (*Entry, error) {
	raw, ok := s.session().Values[valueKey].(string)
	if !ok || raw == "" {
		return nil, nil
	}
	var entry Entry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return nil, fmt.Errorf("decode login ledger: %w", err)
	}
	return &entry, nil
}

func (s *cookieStore) Save(entry Entry) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	session := s.session()
	session.Values[valueKey] = string(raw)
	return session.Save(s.r, s.w)
}

func (s *cookieStore) Clear() error {
	session := s.session()
	session.Values = map[interface{}]interface{}{}
	session.Options.MaxAge = -1
	return session.Save(s.r, s.w)
}
