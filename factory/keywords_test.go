package factory_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/osg-reconciler/factory"
	"github.com/warp/osg-reconciler/osg"
)

func TestParseKeywordRules_YAMLKeepsOrder(t *testing.T) {
	doc := `
rules:
  - token: "TV : Spill and Drop Protection"
    keywords: [TV]
  - token: "HAEW : Warranty : TV"
    keywords: ["TV", "TV 28 %", "  "]
`
	rules, err := factory.ParseKeywordRules([]byte(doc))
	require.NoError(t, err)

	require.Len(t, rules, 2)
	assert.Equal(t, "TV : Spill and Drop Protection", rules[0].Token)
	assert.Equal(t, []string{"TV", "TV 28 %"}, rules[1].Keywords)
}

func TestParseKeywordRules_JSONSequence(t *testing.T) {
	doc := `[{"token": "AC AMC", "keywords": ["AC", "AC INDOOR"]}]`

	rules, err := factory.ParseKeywordRules([]byte(doc))
	require.NoError(t, err)

	assert.Equal(t, []osg.KeywordRule{{Token: "AC AMC", Keywords: []string{"AC", "AC INDOOR"}}}, rules)
}

func TestParseKeywordRules_Invalid(t *testing.T) {
	cases := map[string]string{
		"empty":         "",
		"no rules":      "rules: []",
		"blank token":   `[{"token": " ", "keywords": ["TV"]}]`,
		"no keywords":   `[{"token": "AC AMC", "keywords": [" "]}]`,
		"duplicate":     `[{"token": "A", "keywords": ["X"]}, {"token": "A", "keywords": ["Y"]}]`,
		"not a mapping": "rules: 5",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := factory.ParseKeywordRules([]byte(doc))
			assert.ErrorIs(t, err, factory.ErrInvalidKeywordTable)
		})
	}
}

func TestMarshalKeywordRules_RoundTripsDefaults(t *testing.T) {
	data, err := factory.MarshalKeywordRules(osg.DefaultKeywordRules())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "keywords.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	rules, err := factory.LoadKeywordRules(path)
	require.NoError(t, err)
	assert.Equal(t, osg.DefaultKeywordRules(), rules)
}

func TestLoadKeywordRules_MissingFile(t *testing.T) {
	_, err := factory.LoadKeywordRules(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
