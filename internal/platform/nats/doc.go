// Package nats publishes provisioning progress notes to a NATS subject.
//
// A Publisher is a task sink: every note becomes one JSON message on the
// configured subject, with the service name carried in the Nodeforge-Service
// header so subscribers can filter without decoding the body.
package nats
