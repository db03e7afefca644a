// Package logging provides the structured logger used across Pin Logic.
//
// It is a thin wrapper around log/slog: consumer packages declare their own
// minimal Logger interfaces (Debug/Info/Warn/Error) and this type satisfies
// all of them, so nothing below the infrastructure layer imports slog or this
// package directly.
package logging
