// Package retry provides exponential backoff retry logic for transient failures.
//
// [WithExponentialBackoff] retries an operation with configurable max attempts,
// initial delay, maximum delay and multiplier. The applier uses it for every
// Server-Side Apply and delete call against the cluster API. Errors wrapped
// with [Fatal] stop the loop immediately.
package retry
