// Package model defines the database models for the toggle administration
// service.
//
// This package contains GORM models that map to the PostgreSQL schema in
// db/migrations.
//
// # Core Models
//
//   - Feature: a named capability that can be switched on for an audience
//   - Product: a product line a toggle can apply to
//   - Environment: a deployment stage (staging, production, ...)
//   - Group: a targeting segment such as a customer cohort
//   - Toggle: activation of one Feature for one (Group, Product, Environment)
//
// # Database Schema
//
//   - features, products, environments, groups: one row per entity, keyed by id
//   - active_group_feature_toggles: junction table keyed by the four foreign keys
package model
