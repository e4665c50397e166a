// Package logger wraps zap for the alarm clock binaries. It offers
//   - a global sugared logger with a console encoder,
//   - context helpers (ToContext/FromContext/WithName/WithKV/WithFields),
//   - level parsing and configuration from config files,
//   - convenience functions (Infof, ErrorKV, etc.).
//
// The registry, trigger service and transports take a context and log
// through the logger stored in it, so every line carries its scope.
package logger
