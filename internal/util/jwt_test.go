package util

import (
	"testing"
	"time"

	"coursehub_backend/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jwtTestSecret = "unit-test-secret-unit-test-secret"

func TestJWTRoundTrip(t *testing.T) {
	user := &model.User{Username: "bob", Role: model.Instructor}
	user.ID = 17

	token, err := GenerateJWT(user, jwtTestSecret, time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWT(token, jwtTestSecret)
	require.NoError(t, err)

	assert.Equal(t, uint(17), claims.UserID)
	assert.Equal(t, model.Instructor, claims.Role)
	assert.Equal(t, "bob", claims.Username)
}

func TestJWTWrongSecret(t *testing.T) {
	user := &model.User{Username: "bob"}
	user.ID = 1

	token, err := GenerateJWT(user, jwtTestSecret, time.Hour)
	require.NoError(t, err)

	_, err = ParseJWT(token, "some-other-secret-entirely-here!!")
	assert.Error(t, err)
}

func TestJWTRejectsOtherSigningMethods(t *testing.T) {
	claims := &Claims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS384, claims).SignedString([]byte(jwtTestSecret))
	require.NoError(t, err)

	_, err = ParseJWT(token, jwtTestSecret)
	assert.Error(t, err, "only HS256 tokens are accepted")
}

func TestJWTExpired(t *testing.T) {
	user := &model.User{Username: "bob"}
	user.ID = 1

	token, err := GenerateJWT(user, jwtTestSecret, -time.Minute)
	require.NoError(t, err)

	_, err = ParseJWT(token, jwtTestSecret)
	assert.Error(t, err)
}
