// internal/i18n/i18n_test.go
package i18n

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testInstance() *I18n {
	return &I18n{
		translations: map[string]map[string]string{
			"en": {
				"auth.login_success": "Login successful",
				"validation.min":     "%s must be at least %d characters",
				"english_only":       "only in English",
			},
			"vi": {
				"auth.login_success": "Đăng nhập thành công",
			},
		},
		defaultLang: "en",
	}
}

func TestTranslateRequestedLanguage(t *testing.T) {
	i := testInstance()

	assert.Equal(t, "Đăng nhập thành công", i.T("vi", "auth.login_success"))
	assert.Equal(t, "Login successful", i.T("en", "auth.login_success"))
}

func TestTranslateFallsBackToDefaultLanguage(t *testing.T) {
	i := testInstance()

	assert.Equal(t, "only in English", i.T("vi", "english_only"))
}

func TestTranslateReturnsKeyWhenMissing(t *testing.T) {
	i := testInstance()

	assert.Equal(t, "no.such.key", i.T("en", "no.such.key"))
	assert.Equal(t, "no.such.key", i.T("vi", "no.such.key"))
}

func TestTranslateFormatsArguments(t *testing.T) {
	i := testInstance()

	assert.Equal(t, "password must be at least 8 characters",
		i.T("en", "validation.min", "password", 8))
}

func TestLoadTranslationsFromDisk(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "en.json"),
		[]byte(`{"greeting": "hello"}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "vi.json"),
		[]byte(`{"greeting": "xin chào"}`), 0o644))

	i := &I18n{translations: make(map[string]map[string]string), defaultLang: "en"}
	require.NoError(t, i.LoadTranslations(dir))

	assert.Equal(t, "hello", i.T("en", "greeting"))
	assert.Equal(t, "xin chào", i.T("vi", "greeting"))
}

func TestLoadTranslationsMissingFile(t *testing.T) {
	i := &I18n{translations: make(map[string]map[string]string), defaultLang: "en"}

	assert.Error(t, i.LoadTranslations(t.TempDir()))
}
