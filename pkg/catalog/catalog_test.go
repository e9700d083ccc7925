package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCatalog = `
features:
  - name: dark-mode
    type: boolean
    owner: team-x
    description: Switches the **palette**
    enabled: true
  - name: new-checkout
    type: release
    owner: payments
products:
  - name: web
    owner: team-web
environments:
  - name: production
    description: Live traffic
groups:
  - name: beta-testers
    owner: growth
  - name: enterprise
    owner: sales
toggles:
  - feature: dark-mode
    group: beta-testers
    product: web
    environment: production
  - feature: new-checkout
    group: enterprise
    product: web
    environment: production
`

func TestParse(t *testing.T) {
	t.Run("full document", func(t *testing.T) {
		c, err := Parse(strings.NewReader(sampleCatalog))
		require.NoError(t, err)
		require.Len(t, c.Features, 2)
		assert.Equal(t, "dark-mode", c.Features[0].Name)
		require.NotNil(t, c.Features[0].Enabled)
		assert.True(t, *c.Features[0].Enabled)
		assert.Nil(t, c.Features[1].Enabled)
		assert.Nil(t, c.Features[1].Description)
		assert.Len(t, c.Products, 1)
		assert.Len(t, c.Environments, 1)
		assert.Len(t, c.Groups, 2)
		require.Len(t, c.Toggles, 2)
		assert.Equal(t, "new-checkout/enterprise/web/production", c.Toggles[1].String())
		assert.NoError(t, c.Validate())
	})

	t.Run("empty document", func(t *testing.T) {
		c, err := Parse(strings.NewReader(""))
		require.NoError(t, err)
		assert.Empty(t, c.Features)
		assert.NoError(t, c.Validate())
	})

	t.Run("unknown key", func(t *testing.T) {
		_, err := Parse(strings.NewReader("features:\n  - name: x\n    colour: red\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "colour")
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := Parse(strings.NewReader("features: [\n"))
		assert.ErrorContains(t, err, "failed to parse catalog")
	})
}

func TestValidate(t *testing.T) {
	c, err := Parse(strings.NewReader(`
features:
  - name: dark-mode
    type: boolean
  - name: dark-mode
    type: boolean
    owner: team-x
environments:
  - description: nameless
toggles:
  - feature: dark-mode
    group: beta-testers
    product: web
`))
	require.NoError(t, err)

	err = c.Validate()
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Problems, "features[0].owner is required")
	assert.Contains(t, verr.Problems, "environments[0].name is required")
	assert.Contains(t, verr.Problems, "toggles[0].environment is required")
	assert.Contains(t, verr.Problems, `features[1] duplicates features[0] ("dark-mode")`)
	assert.True(t, strings.HasPrefix(err.Error(), "invalid catalog: "))
}
