package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalize(t *testing.T) {
	require.NoError(t, Init())

	data := map[string]interface{}{"Resource": "order", "ID": "o-1"}

	assert.Equal(t, "order o-1 not found", Localize([]string{"en"}, "error.not_found", data, "x"))
	assert.Equal(t, "order o-1 tidak ditemukan", Localize([]string{"id-ID", "en"}, "error.not_found", data, "x"))
	assert.Equal(t, "fallback", Localize([]string{"en"}, "error.unknown", nil, "fallback"))
}
