package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/glossa"
)

func TestPascal(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"hello", "Hello"},
		{"hello_name", "HelloName"},
		{"helloName", "HelloName"},
		{"user_id", "UserID"},
		{"api_url", "APIURL"},
		{"_private", "Private"},
		{"a__b", "AB"},
		{"pt-BR", "PtBR"},
		{"es-419", "Es419"},
		{"élan", "Élan"},
		{"_", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, pascal(tt.in))
		})
	}
}

func TestAddAcronym(t *testing.T) {
	AddAcronym("otp")
	assert.Equal(t, "OTPCode", pascal("otp_code"))
}

func TestMethodName(t *testing.T) {
	m, err := methodName("hello_name")
	require.NoError(t, err)
	assert.Equal(t, "HelloName", m)

	for _, key := range []string{"string", "language_id", "tag", "_", "日本"} {
		t.Run(key, func(t *testing.T) {
			_, err := methodName(key)
			require.Error(t, err)
			assert.ErrorIs(t, err, glossa.ErrInvalidKey)
		})
	}
}

func TestReceiver(t *testing.T) {
	assert.Equal(t, "l", receiver("Lang"))
	assert.Equal(t, "é", receiver("Élan"))
}

func TestParamIdents(t *testing.T) {
	idents := paramIdents([]string{"func", "l", "name", "func_"}, names("l"))

	assert.Equal(t, map[string]string{
		"func":  "func__",
		"l":     "l_",
		"name":  "name",
		"func_": "func_",
	}, idents)

	t.Run("blank", func(t *testing.T) {
		idents := paramIdents([]string{"_", "__"}, names("l"))

		assert.Equal(t, map[string]string{"_": "___", "__": "__"}, idents)
	})
}
