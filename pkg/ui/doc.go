// Package ui serves the server-rendered administration pages.
//
// Pages are html/template files embedded in the binary. Every read and
// write goes through the API client, so the pages behave exactly like any
// other API consumer. Forms post back and redirect with a flash message in
// the query string (?notice= or ?error=).
//
// # Pages
//
//   - /ui/features, /ui/products, /ui/environments, /ui/groups: list, create, edit and delete
//   - /ui/features/{id}: toggles of one feature
//   - /ui/toggles: all toggles with filters, add, replace and remove
package ui
