// Package app contains the core application logic: the App struct wraps a
// configured dsl.Parser and a logger, and Run drives one parse of a
// workspace path, decoupled from any specific entrypoint like a CLI.
package app
