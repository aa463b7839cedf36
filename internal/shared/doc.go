// Package shared holds code used across packages that belongs to no single
// layer. Today that is only testutil: a capturing slog handler and writers
// for portal-shaped CSV fixtures.
package shared
