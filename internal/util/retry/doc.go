// Package retry provides exponential backoff retry logic for transient failures.
//
// [WithExponentialBackoff] retries an operation with configurable max retries,
// initial delay and maximum delay. It backs the cloud delete path and the
// SSH dial. Errors wrapped with [Fatal] stop the loop immediately.
package retry
