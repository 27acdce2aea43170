package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/salon-calendar/internal/realtime"
	"github.com/BruksfildServices01/salon-calendar/internal/session"
)

type fakeAuth struct {
	token string
	err   error
}

func (f fakeAuth) Login(context.Context, string, string) (string, error) {
	return f.token, f.err
}

// recorder implementa todas as portas e guarda a ordem das chamadas.
type recorder struct {
	calls []string
	opts  realtime.SubscribeOptions
}

func (r *recorder) Start(opts realtime.SubscribeOptions) {
	r.calls = append(r.calls, "start")
	r.opts = opts
}
func (r *recorder) Stop() {
	r.calls = append(r.calls, "stop")
}

func (r *recorder) Resync(context.Context) error {
	r.calls = append(r.calls, "resync")
	return nil
}

func (r *recorder) Release() error {
	r.calls = append(r.calls, "release")
	return nil
}

func (r *recorder) Reset() {
	r.calls = append(r.calls, "reset")
}

func token(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      "11",
		"tenantId": 7,
		"exp":      exp.Unix(),
	}).SignedString([]byte("x"))
	require.NoError(t, err)
	return tok
}

func newLifecycle(auth Authenticator, store session.Store) (*Lifecycle, *recorder, *session.Manager) {
	rec := &recorder{}
	sessions := session.NewManager(store)
	lc := NewLifecycle(auth, sessions, rec, rec, rec, rec, "http://rt")
	return lc, rec, sessions
}

func TestLogin_ActivatesTenantSubscription(t *testing.T) {
	tok := token(t, time.Now().Add(time.Hour))
	lc, rec, sessions := newLifecycle(fakeAuth{token: tok}, session.NewMemoryStore())

	st, err := lc.Login(context.Background(), "a@b.com", "pw")
	require.NoError(t, err)

	assert.Equal(t, tok, st.Token)
	assert.Equal(t, "7", sessions.TenantID())
	assert.Equal(t, []string{"start", "resync"}, rec.calls)
	assert.Equal(t, realtime.SubscribeOptions{Endpoint: "http://rt", TenantID: "7", Credential: tok}, rec.opts)
}

func TestLogin_UndecodableTokenKeepsTokenWithoutIdentity(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemoryStore()
	lc, rec, sessions := newLifecycle(fakeAuth{token: "opaque"}, store)

	st, err := lc.Login(ctx, "a@b.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "opaque", st.Token)
	assert.Nil(t, st.Identity)

	// sem tenant não há assinatura nem busca
	assert.Empty(t, rec.calls)
	assert.Equal(t, "opaque", sessions.Token())

	stored, ok, err := store.Get(ctx, session.DefaultKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "opaque", stored)
}

func TestLogin_RemoteError(t *testing.T) {
	boom := errors.New("401")
	lc, rec, _ := newLifecycle(fakeAuth{err: boom}, session.NewMemoryStore())

	_, err := lc.Login(context.Background(), "a@b.com", "pw")
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, rec.calls)
}

func TestResume(t *testing.T) {
	ctx := context.Background()

	store := session.NewMemoryStore()
	require.NoError(t, store.Set(ctx, session.DefaultKey, token(t, time.Now().Add(time.Hour))))
	lc, rec, _ := newLifecycle(fakeAuth{}, store)

	st := lc.Resume(ctx)
	assert.False(t, st.Empty())
	assert.Equal(t, []string{"start", "resync"}, rec.calls)

	expired := session.NewMemoryStore()
	require.NoError(t, expired.Set(ctx, session.DefaultKey, token(t, time.Now().Add(-time.Hour))))
	lc, rec, _ = newLifecycle(fakeAuth{}, expired)

	st = lc.Resume(ctx)
	assert.True(t, st.Empty())
	assert.Empty(t, rec.calls)
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	tok := token(t, time.Now().Add(time.Hour))
	store := session.NewMemoryStore()
	lc, rec, sessions := newLifecycle(fakeAuth{token: tok}, store)

	_, err := lc.Login(ctx, "a@b.com", "pw")
	require.NoError(t, err)

	require.NoError(t, lc.Logout(ctx))
	assert.Equal(t, []string{"start", "resync", "stop", "release", "reset"}, rec.calls)
	assert.True(t, sessions.State().Empty())

	_, ok, _ := store.Get(ctx, session.DefaultKey)
	assert.False(t, ok)
}
