// Package server implements the core connection-and-broadcast engine of the
// fake IRC server: the TCP listener, per-connection client sessions, the hub
// that tracks live clients, and the dispatcher that turns operator input into
// broadcasts.
//
// The implementation is organized into specialized files for configuration,
// hub management, clients, the listener, and the dispatcher to keep the
// codebase maintainable and testable as the project grows.
package server
