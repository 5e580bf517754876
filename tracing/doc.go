// Package tracing wraps OpenTelemetry so that compiler and runtime code can
// open spans without importing the upstream packages directly.
package tracing
