package ledger

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRecordAndHasLoggedIn(t *testing.T) {
	t.Parallel()

	l := New(NewMemoryStore())
	require.False(t, l.HasLoggedIn("t1", "u1"))

	require.NoError(t, l.Record("t1", "u1"))
	require.NoError(t, l.Record("t2", "u1"))
	require.NoError(t, l.Record("t1", "u1"))

	require.True(t, l.HasLoggedIn("t1", "u1"))
	require.True(t, l.HasLoggedIn("t2", "u1"))
	require.False(t, l.HasLoggedIn("t3", "u1"))
	require.False(t, l.HasLoggedIn("t1", "u2"))
}

func TestSwitchingUserDiscardsPriorLogins(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	l := New(store)
	require.NoError(t, l.Record("t1", "u1"))
	require.NoError(t, l.Record("t2", "u2"))

	require.False(t, l.HasLoggedIn("t1", "u1"))
	require.True(t, l.HasLoggedIn("t2", "u2"))

	entry, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, Entry{UserID: "u2", TenantIDs: []string{"t2"}}, *entry)
}

func TestClear(t *testing.T) {
	t.Parallel()

	l := New(NewMemoryStore())
	require.NoError(t, l.Record("t1", "u1"))
	require.NoError(t, l.Clear())
	require.False(t, l.HasLoggedIn("t1", "u1"))
}

func TestRecordRequiresIDs(t *testing.T) {
	t.Parallel()

	l := New(NewMemoryStore())
	require.Error(t, l.Record("", "u1"))
	require.Error(t, l.Record("t1", ""))
}

type brokenStore struct{ saved *Entry }

func (b *brokenStore) Load() (*Entry, error) { return nil, errors.New("corrupt") }
func (b *brokenStore) Save(e Entry) error    { b.saved = &e; return nil }
func (b *brokenStore) Clear() error          { return nil }

func TestUnreadableStoreIsTreatedAsEmpty(t *testing.T) {
	t.Parallel()

	store := &brokenStore{}
	l := New(store)
	require.False(t, l.HasLoggedIn("t1", "u1"))
	require.NoError(t, l.Record("t1", "u1"))
	require.Equal(t, []string{"t1"}, store.saved.TenantIDs)
}

func TestCookieStoreRoundTrip(t *testing.T) {
	t.Parallel()

	cookies, err := NewCookies(CookieConfig{HashKey: []byte("0123456789abcdef0123456789abcdef")})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tenants/acme/logins", nil)
	require.NoError(t, New(cookies.Bind(rec, req)).Record("t1", "u1"))

	setCookie := rec.Result().Cookies()
	require.Len(t, setCookie, 1)
	require.Equal(t, StorageKey, setCookie[0].Name)

	next := httptest.NewRequest(http.MethodGet, "/api/v1/tenants/acme/access", nil)
	next.AddCookie(setCookie[0])
	l := New(cookies.Bind(httptest.NewRecorder(), next))
	require.True(t, l.HasLoggedIn("t1", "u1"))
	require.False(t, l.HasLoggedIn("t1", "u2"))

	clearRec := httptest.NewRecorder()
	clearReq := httptest.NewRequest(http.MethodPost, "/api/v1/auth/sign-out", nil)
	clearReq.AddCookie(setCookie[0])
	require.NoError(t, New(cookies.Bind(clearRec, clearReq)).Clear())
	cleared := clearRec.Result().Cookies()
	require.Len(t, cleared, 1)
	require.True(t, cleared[0].MaxAge < 0)
}

func TestCookieStoreIgnoresTamperedCookie(t *testing.T) {
	t.Parallel()

	cookies, err := NewCookies(CookieConfig{HashKey: []byte("0123456789abcdef0123456789abcdef")})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: StorageKey, Value: "garbage"})
	require.False(t, New(cookies.Bind(httptest.NewRecorder(), req)).HasLoggedIn("t1", "u1"))
}

func TestNewCookiesRequiresHashKey(t *testing.T) {
	t.Parallel()

	_, err := NewCookies(CookieConfig{})
	require.Error(t, err)
}

func TestNewCookiesRejectsBadBlockKey(t *testing.T) {
	t.Parallel()

	hash := []byte("0123456789abcdef0123456789abcdef")
	_, err := NewCookies(CookieConfig{HashKey: hash, BlockKey: []byte("short")})
	require.Error(t, err)

	_, err = NewCookies(CookieConfig{HashKey: hash, BlockKey: []byte("0123456789abcdef")})
	require.NoError(t, err)
}
