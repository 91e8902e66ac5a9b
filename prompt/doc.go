// Package prompt holds the reasoning prompt templates and the
// user-facing message catalog. Both live outside the transition logic so
// wording and localization changes never touch routing code.
package prompt
