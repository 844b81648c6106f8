// Package s3 archives provisioning task trails to S3-compatible object
// storage such as Hetzner Object Storage.
//
// After a run, the progress notes of a service are uploaded as one JSON
// document under tasks/<service>/<timestamp>.json. The bucket is created on
// first use.
package s3
