// Package repository persists the moderation history in MySQL.
package repository

import "errors"

// ErrDisabled is returned by a repository built without a database.
// Handlers show the feature as unavailable instead of failing.
var ErrDisabled = errors.New("repository: database not configured")
