package auth

import (
    "context"
    "testing"
    "time"

    "github.com/golang-jwt/jwt/v5"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "bookhub/internal/model"
    "bookhub/internal/session"
    "bookhub/internal/store"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret, sub string) string {
    t.Helper()
    tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
        "sub": sub,
        "exp": time.Now().Add(time.Hour).Unix(),
    })
    s, err := tok.SignedString([]byte(secret))
    require.NoError(t, err)
    return s
}

func newHMACVerifier(accounts ...model.Account) *Verifier {
    return &Verifier{
        Mode:       "hmac",
        HMACSecret: []byte(testSecret),
        Accounts:   store.NewMemory(accounts...),
    }
}

func TestVerifyMissingCredential(t *testing.T) {
    v := newHMACVerifier()
    for _, cred := range []string{"", "   "} {
        _, err := v.Verify(context.Background(), cred)
        assert.ErrorIs(t, err, ErrMissingCredential)
    }
}

func TestVerifyDevMode(t *testing.T) {
    v := &Verifier{
        Mode:     "dev",
        Accounts: store.NewMemory(model.Account{ID: "u1", DisplayName: "Ada"}),
    }

    ident, err := v.Verify(context.Background(), "u1")
    require.NoError(t, err)
    assert.Equal(t, model.Identity{ID: "u1", DisplayName: "Ada"}, ident)

    // Unknown users still connect in dev mode.
    ident, err = v.Verify(context.Background(), "u2")
    require.NoError(t, err)
    assert.Equal(t, "u2", ident.ID)
}

func TestVerifyHMAC(t *testing.T) {
    v := newHMACVerifier(model.Account{ID: "u1", DisplayName: "Ada"})

    ident, err := v.Verify(context.Background(), signToken(t, testSecret, "u1"))
    require.NoError(t, err)
    assert.Equal(t, "u1", ident.ID)
    assert.Equal(t, "Ada", ident.DisplayName)
}

func TestVerifyHMACBadSignature(t *testing.T) {
    v := newHMACVerifier(model.Account{ID: "u1"})

    _, err := v.Verify(context.Background(), signToken(t, "wrong-secret", "u1"))
    assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestVerifyHMACGarbageToken(t *testing.T) {
    v := newHMACVerifier(model.Account{ID: "u1"})

    _, err := v.Verify(context.Background(), "not-a-jwt")
    assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestVerifyHMACUnknownAccount(t *testing.T) {
    v := newHMACVerifier() // empty store

    _, err := v.Verify(context.Background(), signToken(t, testSecret, "gone"))
    assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestVerifySessionFallback(t *testing.T) {
    sessions := session.NewMemory(nil)
    require.NoError(t, sessions.Put(context.Background(), "sess-abc", "u1", 0))

    v := newHMACVerifier(model.Account{ID: "u1", DisplayName: "Ada"})
    v.Sessions = sessions

    ident, err := v.Verify(context.Background(), "sess-abc")
    require.NoError(t, err)
    assert.Equal(t, "u1", ident.ID)

    _, err = v.Verify(context.Background(), "sess-unknown")
    assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestFromRequestValues(t *testing.T) {
    assert.Equal(t, "tok1", FromRequestValues("tok1", "Bearer tok2"), "query token wins")
    assert.Equal(t, "tok2", FromRequestValues("", "Bearer tok2"))
    assert.Equal(t, "tok2", FromRequestValues("", "bearer tok2"))
    assert.Equal(t, "", FromRequestValues("", "Basic abc"))
    assert.Equal(t, "", FromRequestValues("", ""))
}
