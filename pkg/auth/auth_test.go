package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestUserID(t *testing.T) {
	t.Parallel()

	_, ok := UserID(context.Background())
	require.False(t, ok)

	id, ok := UserID(WithUserID(context.Background(), 42))
	require.True(t, ok)
	require.Equal(t, int64(42), id)

	_, ok = UserID(WithUserID(context.Background(), 0))
	require.False(t, ok)
}

func TestTokens_RoundTrip(t *testing.T) {
	t.Parallel()

	tokens := NewTokens("secret", time.Hour)
	raw, err := tokens.Issue(7)
	require.NoError(t, err)

	id, err := tokens.Parse(raw)
	require.NoError(t, err)
	require.Equal(t, int64(7), id)
}

func TestTokens_Parse_Rejects(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	issuer := NewTokens("secret", time.Minute)
	issuer.now = func() time.Time { return base }
	valid, err := issuer.Issue(7)
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "7"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	badSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "bob"}).
		SignedString([]byte("secret"))
	require.NoError(t, err)

	tests := []struct {
		name   string
		raw    string
		secret string
		now    time.Time
	}{
		{name: "garbage", raw: "not-a-token", secret: "secret", now: base},
		{name: "wrong secret", raw: valid, secret: "other", now: base},
		{name: "expired", raw: valid, secret: "secret", now: base.Add(time.Hour)},
		{name: "alg none", raw: none, secret: "secret", now: base},
		{name: "non numeric subject", raw: badSubject, secret: "secret", now: base},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			v := NewTokens(tt.secret, time.Minute)
			v.now = func() time.Time { return tt.now }
			_, err := v.Parse(tt.raw)
			require.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestTokens_Issue_RejectsAnonymous(t *testing.T) {
	t.Parallel()

	_, err := NewTokens("secret", 0).Issue(0)
	require.Error(t, err)
}
