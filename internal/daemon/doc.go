// Package daemon provides the main orchestration for wispd.
// It maps toast ids onto D-Bus wire ids, hot-reloads the configuration
// file with validation, and reports daemon events (config reloaded,
// config invalid, startup) as toasts through the registry.
package daemon
