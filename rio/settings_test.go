package rio

import (
	"bytes"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLimit = NewValidatedSetting("test.limit", "a positive limit", 10, func(v int) error {
	if v <= 0 {
		return errors.New("must be positive")
	}
	return nil
})

func TestGetFallsBackToDefault(t *testing.T) {
	cfg := NewConfig()
	require.Equal(t, 10, Get(cfg, testLimit))
	require.False(t, cfg.IsSet(testLimit))
	require.Equal(t, 10, Get[int](nil, testLimit))

	Set(cfg, testLimit, 3)
	require.Equal(t, 3, Get(cfg, testLimit))
	require.True(t, cfg.IsSet(testLimit))

	Set(cfg, testLimit, 4)
	require.Equal(t, 4, Get(cfg, testLimit))

	cfg.Unset(testLimit)
	require.Equal(t, 10, Get(cfg, testLimit))
}

func TestZeroConfigIsUsable(t *testing.T) {
	var cfg Config
	Set(&cfg, BasicWriterSettings.PrettyPrint, false)
	cfg.AddNonFatal(BasicParserSettings.VerifyLanguageTags)
	require.False(t, Get(&cfg, BasicWriterSettings.PrettyPrint))
	require.True(t, cfg.IsNonFatal(BasicParserSettings.VerifyLanguageTags))
}

func TestNonFatalSetIsIndependentOfValues(t *testing.T) {
	cfg := NewParserConfig()
	cfg.AddNonFatal(BasicParserSettings.VerifyIRISyntax, BasicParserSettings.VerifyLanguageTags)
	require.False(t, cfg.IsSet(BasicParserSettings.VerifyIRISyntax))
	require.Equal(t, []string{
		"org.openrdf.rio.verifylanguagetags",
		"org.openrdf.rio.verifyurisyntax",
	}, cfg.NonFatalErrors())

	cfg.RemoveNonFatal(BasicParserSettings.VerifyIRISyntax)
	require.False(t, cfg.IsNonFatal(BasicParserSettings.VerifyIRISyntax))

	cfg.SetNonFatalErrors(BasicParserSettings.PreserveBNodeIDs)
	require.Equal(t, []string{"org.openrdf.rio.preservebnodeids"}, cfg.NonFatalErrors())

	cfg.AddNonFatalKeys("custom.key")
	require.Len(t, cfg.NonFatalErrors(), 2)
}

func TestConfigSettingsSorted(t *testing.T) {
	cfg := NewConfig()
	Set(cfg, testLimit, 1)
	Set(cfg, BasicParserSettings.PreserveBNodeIDs, true)
	keys := []string{}
	for _, s := range cfg.Settings() {
		keys = append(keys, s.Key())
	}
	require.Equal(t, []string{"org.openrdf.rio.preservebnodeids", "test.limit"}, keys)
}

func TestConfigCloneAndUseDefaults(t *testing.T) {
	cfg := NewConfig()
	Set(cfg, testLimit, 5)
	cfg.AddNonFatal(testLimit)

	clone := cfg.Clone()
	Set(clone, testLimit, 6)
	require.Equal(t, 5, Get(cfg, testLimit))
	require.True(t, clone.IsNonFatal(testLimit))

	cfg.UseDefaults()
	require.Equal(t, 10, Get(cfg, testLimit))
	require.Empty(t, cfg.NonFatalErrors())
	require.Equal(t, 6, Get(clone, testLimit))
}

func TestNilConfigReads(t *testing.T) {
	var cfg *Config
	require.NotPanics(t, func() {
		cfg.UseDefaults()
		cfg.Unset(testLimit)
	})
	assert.Equal(t, 10, Get(cfg, testLimit))
	assert.False(t, cfg.IsSet(testLimit))
	assert.False(t, cfg.IsNonFatal(testLimit))
	assert.Nil(t, cfg.Settings())
	assert.Nil(t, cfg.NonFatalErrors())
	assert.NotNil(t, cfg.Clone())
}

func TestConfigValidate(t *testing.T) {
	var buf bytes.Buffer
	prev := *Logger()
	SetLogger(zerolog.New(&buf))
	t.Cleanup(func() { SetLogger(prev) })

	cfg := NewConfig()
	Set(cfg, testLimit, 0)
	err := cfg.Validate(NTriples, []AnySetting{testLimit})
	require.Error(t, err)
	require.ErrorIs(t, err, ErrConfiguration)
	require.Contains(t, err.Error(), "test.limit")

	Set(cfg, testLimit, 1)
	require.NoError(t, cfg.Validate(NTriples, []AnySetting{testLimit}))
	assert.Empty(t, buf.String())

	require.NoError(t, cfg.Validate(NTriples, nil))
	assert.Contains(t, buf.String(), "test.limit")
}

func TestInputCharsetValidation(t *testing.T) {
	s := BasicParserSettings.InputCharset
	require.NoError(t, s.Validate(""))
	require.NoError(t, s.Validate("UTF-8"))
	require.NoError(t, s.Validate("ISO-8859-1"))
	require.NoError(t, s.Validate("windows-1252"))
	require.Error(t, s.Validate("klingon-9"))
	require.Error(t, s.Validate(42))
}

func TestSettingDescriptors(t *testing.T) {
	s := BasicWriterSettings.PrettyPrint
	assert.Equal(t, "org.openrdf.rio.prettyprint", s.Key())
	assert.Equal(t, true, s.DefaultValue())
	assert.True(t, s.Default())
	assert.NotEmpty(t, s.Description())
	assert.Len(t, ParserBaseSettings(), 5)
	assert.Len(t, WriterBaseSettings(), 1)
}
