package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeTags(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{name: "nil becomes empty", in: nil, want: []string{}},
		{name: "trims and keeps order", in: []string{" ui ", "material"}, want: []string{"ui", "material"}},
		{name: "drops empty and blank", in: []string{"", "  ", "a"}, want: []string{"a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeTags(tt.in)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAvatarURL(t *testing.T) {
	assert.Nil(t, AvatarURL(""))

	got := AvatarURL("Ada Lovelace")
	require.NotNil(t, got)
	assert.Equal(t, "https://api.dicebear.com/7.x/avataaars/svg?seed=Ada+Lovelace", *got)

	// Same name, same URL.
	again := AvatarURL("Ada Lovelace")
	assert.Equal(t, *got, *again)
}

func TestCategoryValid(t *testing.T) {
	for _, c := range Categories {
		assert.True(t, c.Valid(), "category %q should be valid", c)
	}
	assert.False(t, Category("widgets").Valid())
	assert.False(t, Category("").Valid())
}
