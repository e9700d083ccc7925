package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleKey(t *testing.T) {
	t.Run("missing reports every empty identifier", func(t *testing.T) {
		k := ToggleKey{FeatureID: "f1", ProductID: "p1"}
		assert.Equal(t, []string{"groupId", "environmentId"}, k.Missing())
		assert.EqualError(t, k.Validate(), "missing groupId, environmentId")
	})

	t.Run("complete key validates", func(t *testing.T) {
		k := ToggleKey{FeatureID: "f1", GroupID: "g1", ProductID: "p1", EnvironmentID: "e1"}
		assert.Empty(t, k.Missing())
		assert.NoError(t, k.Validate())
	})

	t.Run("round trips through toggle", func(t *testing.T) {
		k := ToggleKey{FeatureID: "f1", GroupID: "g1", ProductID: "p1", EnvironmentID: "e1"}
		assert.Equal(t, k, k.Toggle().Key())
	})
}

func TestToggleJSON(t *testing.T) {
	toggle := Toggle{
		FeatureID:     "f1",
		GroupID:       "g1",
		ProductID:     "p1",
		EnvironmentID: "e1",
		CreatedAt:     time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Feature:       &Feature{ID: "f1", Name: "dark-mode"},
	}

	data, err := json.Marshal(toggle)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "f1", out["featureId"])
	assert.Equal(t, "2024-01-02T03:04:05Z", out["createdAt"])
	assert.Equal(t, "dark-mode", out["feature"].(map[string]interface{})["name"])
	assert.NotContains(t, out, "group")
}

func TestKind(t *testing.T) {
	k, err := KindString("Environment")
	require.NoError(t, err)
	assert.Equal(t, KindEnvironment, k)
	assert.Equal(t, "environments", k.Plural())
	assert.Equal(t, "Environment", k.Title())

	_, err = KindString("secret")
	assert.Error(t, err)
}
