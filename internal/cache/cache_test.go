package cache

import (
	"context"
	"testing"

	"autoparts/content/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestRedisKeys(t *testing.T) {
	c := &redisOverrideCache{keyPrefix: "content:"}

	assert.Equal(t, "content:translation:en:product:7", c.translationKey(domain.ProductTranslationKey(7), domain.LanguageEnglish))
	assert.Equal(t, "content:setting:product_taxonomy", c.settingKey(domain.TaxonomySettingKey))
}

func TestNoopCacheAlwaysMisses(t *testing.T) {
	ctx := context.Background()
	c := NewNoopOverrideCache()

	assert.NoError(t, c.SetTranslation(ctx, "product:1", domain.LanguageEnglish, `{"title":"x"}`, true))
	_, _, found, err := c.GetTranslation(ctx, "product:1", domain.LanguageEnglish)
	assert.NoError(t, err)
	assert.False(t, found)

	assert.NoError(t, c.SetSetting(ctx, domain.TaxonomySettingKey, []byte(`[]`), true))
	_, _, found, err = c.GetSetting(ctx, domain.TaxonomySettingKey)
	assert.NoError(t, err)
	assert.False(t, found)

	assert.NoError(t, c.InvalidateTranslation(ctx, "product:1", domain.LanguageEnglish))
	assert.NoError(t, c.InvalidateSetting(ctx, domain.TaxonomySettingKey))
}
