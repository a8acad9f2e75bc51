// Package theme handles TOML theme loading and hot-reload for wisp.
// Themes define per-kind icons and colors plus border style for toast
// rendering. Themes load from ~/.config/wisp/themes/ with a set of
// embedded bundled themes as fallback.
package theme
