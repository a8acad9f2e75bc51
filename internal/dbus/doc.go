// Package dbus implements the org.freedesktop.Notifications interface for
// wispd. The server side receives Notify and CloseNotification calls and
// hands them to the daemon as toast records; the client side lets the wisp
// CLI publish to a running daemon. Desktop close reasons and signals
// (NotificationClosed, ActionInvoked) follow the freedesktop.org
// notification specification, version 1.2.
package dbus
