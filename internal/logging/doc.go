// Package logging provides a simple leveled logging interface for the
// LocalCast server, backed by zerolog.
//
// It supports the following log levels:
//   - DEBUG: Verbose debugging information
//   - INFO: General operational messages
//   - WARN: Warning conditions
//   - ERROR: Error conditions
//   - FATAL: Fatal errors that terminate the application
//
// The log level is configured via the LOG_LEVEL environment variable (or
// DEBUG=true), and can be overridden at startup with [Configure]. Request
// scoped loggers carrying a request_id field are obtained with [FromContext].
package logging
