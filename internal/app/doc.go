// Package app contains the core application logic. It defines the main App
// struct, its configuration, and one entry point per command (generate, run,
// collect, gate and clean), decoupled from any specific entrypoint like a
// CLI or server.
package app
