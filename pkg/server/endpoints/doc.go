// Package endpoints implements the toggler JSON API on top of the store
// interfaces.
//
// Each resource is served on a single path:
//
//	GET    /features              list, newest first
//	POST   /features              create, 201
//	PUT    /features              update, body carries "id"
//	DELETE /features?id=...       delete, {"success": true}
//
// /products, /environments and /groups follow the same shape. /toggles is
// keyed by the (featureId, groupId, productId, environmentId) tuple: GET
// filters on any subset, DELETE needs all four, and PUT takes
// {"oldData": {...}, "newData": {...}}.
//
// Failures are reported as {"error": "..."} with 400 for invalid input,
// 404 for unknown ids, 409 for duplicate tuples or referenced rows and 500
// otherwise.
package endpoints
