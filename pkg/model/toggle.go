package model

import (
	"fmt"
	"strings"
	"time"
)

// Toggle activates a Feature for one (Group, Product, Environment)
// combination. The four foreign keys together form its identity.
type Toggle struct {
	FeatureID     string    `gorm:"column:feature_id;primaryKey" json:"featureId"`
	GroupID       string    `gorm:"column:group_id;primaryKey" json:"groupId"`
	ProductID     string    `gorm:"column:product_id;primaryKey" json:"productId"`
	EnvironmentID string    `gorm:"column:environment_id;primaryKey" json:"environmentId"`
	CreatedAt     time.Time `gorm:"column:create_ts;not null" json:"createdAt"`

	Feature     *Feature     `gorm:"foreignKey:FeatureID;references:ID;constraint:OnDelete:RESTRICT" json:"feature,omitempty"`
	Group       *Group       `gorm:"foreignKey:GroupID;references:ID;constraint:OnDelete:RESTRICT" json:"group,omitempty"`
	Product     *Product     `gorm:"foreignKey:ProductID;references:ID;constraint:OnDelete:RESTRICT" json:"product,omitempty"`
	Environment *Environment `gorm:"foreignKey:EnvironmentID;references:ID;constraint:OnDelete:RESTRICT" json:"environment,omitempty"`
}

func (Toggle) TableName() string {
	return "active_group_feature_toggles"
}

// Key returns the identity tuple of the toggle.
func (t Toggle) Key() ToggleKey {
	return ToggleKey{
		FeatureID:     t.FeatureID,
		GroupID:       t.GroupID,
		ProductID:     t.ProductID,
		EnvironmentID: t.EnvironmentID,
	}
}

// ToggleKey is the (feature, group, product, environment) tuple that
// identifies a Toggle.
type ToggleKey struct {
	FeatureID     string `json:"featureId" yaml:"featureId" validate:"required"`
	GroupID       string `json:"groupId" yaml:"groupId" validate:"required"`
	ProductID     string `json:"productId" yaml:"productId" validate:"required"`
	EnvironmentID string `json:"environmentId" yaml:"environmentId" validate:"required"`
}

// Missing returns the JSON names of the identifiers that are empty.
func (k ToggleKey) Missing() []string {
	var missing []string
	if k.FeatureID == "" {
		missing = append(missing, "featureId")
	}
	if k.GroupID == "" {
		missing = append(missing, "groupId")
	}
	if k.ProductID == "" {
		missing = append(missing, "productId")
	}
	if k.EnvironmentID == "" {
		missing = append(missing, "environmentId")
	}
	return missing
}

// Validate returns an error naming every missing identifier.
func (k ToggleKey) Validate() error {
	if missing := k.Missing(); len(missing) > 0 {
		return fmt.Errorf("missing %s", strings.Join(missing, ", "))
	}
	return nil
}

// Toggle returns a bare Toggle row for the key.
func (k ToggleKey) Toggle() Toggle {
	return Toggle{
		FeatureID:     k.FeatureID,
		GroupID:       k.GroupID,
		ProductID:     k.ProductID,
		EnvironmentID: k.EnvironmentID,
	}
}

func (k ToggleKey) String() string {
	return fmt.Sprintf("feature=%s group=%s product=%s environment=%s",
		k.FeatureID, k.GroupID, k.ProductID, k.EnvironmentID)
}
