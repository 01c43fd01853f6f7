// Package web serves the localized profile page and its validation endpoints.
//
// Requests carry their language in the first path segment. Submitted data is
// validated against a JSON schema (form action) or struct tags (JSON API),
// and every failure is rendered through the issue formatter for that
// language before being flattened into field messages.
package web
