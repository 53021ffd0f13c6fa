package helper

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testAuth() Auth {
	a := SetupAuth("test-secret")
	a.Cost = bcrypt.MinCost
	return a
}

func TestGenerateAndVerifyToken(t *testing.T) {
	a := testAuth()
	id := uuid.New()

	token, err := a.GenerateToken(id)
	require.NoError(t, err)

	for _, header := range []string{token, "Bearer " + token, "bearer  " + token} {
		got, err := a.VerifyToken(header)
		require.NoError(t, err, header)
		assert.Equal(t, id, got)
	}
}

func TestTokenExpiresAfterSevenDays(t *testing.T) {
	a := testAuth()
	issued := time.Now().Add(-TokenTTL - time.Minute)
	a.now = func() time.Time { return issued }

	token, err := a.GenerateToken(uuid.New())
	require.NoError(t, err)

	a.now = time.Now
	_, err = a.VerifyToken(token)
	assert.EqualError(t, err, "token expired")

	a.now = func() time.Time { return issued.Add(TokenTTL - time.Minute) }
	_, err = a.VerifyToken(token)
	assert.NoError(t, err)
}

func TestVerifyTokenRejects(t *testing.T) {
	a := testAuth()
	other := SetupAuth("other-secret")
	foreign, err := other.GenerateToken(uuid.New())
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, TokenClaims{UserID: uuid.NewString()})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"empty":        "",
		"bearer only":  "Bearer ",
		"garbage":      "not-a-jwt",
		"wrong secret": foreign,
		"alg none":     unsigned,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := a.VerifyToken(token)
			assert.Error(t, err)
		})
	}
}

func TestGenerateTokenRequiresUser(t *testing.T) {
	_, err := testAuth().GenerateToken(uuid.Nil)
	assert.Error(t, err)
}

func TestHashAndVerifyPassword(t *testing.T) {
	a := testAuth()
	hashed, err := a.HashPassword("s3cret!")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret!", hashed)

	assert.NoError(t, a.VerifyPassword("s3cret!", hashed))
	assert.Error(t, a.VerifyPassword("wrong", hashed))

	again, err := a.HashPassword("s3cret!")
	require.NoError(t, err)
	assert.NotEqual(t, hashed, again, "hashes must be salted")
}
