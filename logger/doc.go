// Package logger provides structured logging built on zerolog.
//
// It supports multiple output formats (JSON, console), log level
// configuration, and component-scoped loggers with structured fields.
// Output defaults to stderr so log lines never mix with stream data
// flowing through stdout.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("proc")
//	log.Info("command finished", logger.Fields("binary", "sort", "exit_code", 0))
package logger
