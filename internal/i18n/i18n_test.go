// Copyright 2025 The ephios team
// Licensed under the MIT license

package i18n_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"

	"github.com/olewun/ephios/internal/i18n"
)

func TestMain(m *testing.M) {
	if err := i18n.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func TestT(t *testing.T) {
	ctx := i18n.WithLocale(context.Background(), language.English)
	assert.Equal(t, "Qualifications", i18n.T(ctx, "qualifications_title"))

	ctx = i18n.WithLocale(context.Background(), language.German)
	assert.Equal(t, "Qualifikationen", i18n.T(ctx, "qualifications_title"))
}

func TestT_UnknownMessage(t *testing.T) {
	ctx := i18n.WithLocale(context.Background(), language.English)
	assert.Equal(t, "does_not_exist", i18n.T(ctx, "does_not_exist"))
}

func TestTData(t *testing.T) {
	ctx := i18n.WithLocale(context.Background(), language.English)
	msg := i18n.TData(ctx, "consequence_failed", map[string]any{"Reason": "boom"})
	assert.Contains(t, msg, "boom")
}

func TestGetLocale(t *testing.T) {
	assert.Equal(t, "en", i18n.GetLocale(context.Background()))

	ctx := i18n.WithLocale(context.Background(), language.German)
	assert.Equal(t, "de", i18n.GetLocale(ctx))
}

func TestMatchLanguage(t *testing.T) {
	// The matcher may return tags with extensions, so compare the base
	// language only.
	base := func(acceptLanguage string) string {
		b, _ := i18n.MatchLanguage(acceptLanguage).Base()
		return b.String()
	}

	assert.Equal(t, "de", base("de-DE,de;q=0.9"))
	assert.Equal(t, "en", base("en-US"))
	// Unknown languages fall back to English
	assert.Equal(t, "en", base("fr-FR"))
}
