package tokens

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mintToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestDecode(t *testing.T) {
	signed := mintToken(t, jwt.MapClaims{"sub": "user-1", "exp": float64(time.Now().Add(time.Hour).Unix())})

	claims := Decode(signed)

	require.NotNil(t, claims)
	assert.Equal(t, "user-1", claims["sub"])
}

func TestDecodeMalformed(t *testing.T) {
	assert.Nil(t, Decode(""))
	assert.Nil(t, Decode("not-a-token"))
	assert.Nil(t, Decode("aaa.bbb.ccc"))
	assert.Nil(t, Decode("aaa.!!!not-base64!!!.ccc"))
}

func TestIsExpired(t *testing.T) {
	testCases := []struct {
		name    string
		token   string
		expired bool
	}{
		{name: "valid", token: mintToken(t, jwt.MapClaims{"exp": float64(time.Now().Add(time.Hour).Unix())}), expired: false},
		{name: "expired", token: mintToken(t, jwt.MapClaims{"exp": float64(time.Now().Add(-time.Hour).Unix())}), expired: true},
		{name: "no expiry claim", token: mintToken(t, jwt.MapClaims{"sub": "user-1"}), expired: true},
		{name: "malformed", token: "garbage", expired: true},
		{name: "empty", token: "", expired: true},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.expired, IsExpired(testCase.token))
		})
	}
}

func TestTimeRemaining(t *testing.T) {
	valid := mintToken(t, jwt.MapClaims{"exp": float64(time.Now().Add(time.Hour).Unix())})
	remaining := TimeRemaining(valid)
	assert.Greater(t, remaining, 59*time.Minute)
	assert.LessOrEqual(t, remaining, time.Hour)

	expired := mintToken(t, jwt.MapClaims{"exp": float64(time.Now().Add(-time.Minute).Unix())})
	assert.Equal(t, time.Duration(0), TimeRemaining(expired))

	assert.Equal(t, time.Duration(0), TimeRemaining("garbage"))
}
