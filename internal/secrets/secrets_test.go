package secrets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"jobmatch-engine/internal/errs"
)

func TestKeyringThenEnv(t *testing.T) {
	keyring.MockInit()
	t.Setenv("JOOBLE_API_KEY", "from-env")

	assert.Equal(t, "from-env", Get(JoobleAPIKey))

	require.NoError(t, Set(JoobleAPIKey, " from-keyring "))
	assert.Equal(t, "from-keyring", Get(JoobleAPIKey))
	assert.Equal(t, "from-keyring", Settings().JoobleAPIKey)
	assert.True(t, Status()[JoobleAPIKey])
	assert.False(t, Status()[GeminiAPIKey])

	require.NoError(t, Delete(JoobleAPIKey))
	assert.Equal(t, "from-env", Get(JoobleAPIKey))
}

func TestRejectsUnknownAndEmpty(t *testing.T) {
	keyring.MockInit()
	assert.True(t, errs.Is(Set("aws_key", "x"), errs.ErrTypeInvalidInput))
	assert.True(t, errs.Is(Set(GeminiAPIKey, "  "), errs.ErrTypeInvalidInput))
	assert.True(t, errs.Is(Delete(GeminiAPIKey), errs.ErrTypeNotFound))
}
