// Package s3 talks to a deployed MinIO instance over its S3 API. It checks
// that the endpoint accepts the issued credential and bootstraps the
// configured buckets.
package s3
