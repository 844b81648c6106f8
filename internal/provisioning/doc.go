// Package provisioning implements the VM provisioning workflow.
//
// # Components
//
//   - Resolver: looks up flavor, image and network by name, creating the network when absent
//   - Launcher: starts the server and polls it until it leaves the building state
//   - Recorder: appends human-readable progress notes to every configured sink
//   - Rollback: best-effort deletion of a service after a failed run
//   - Workflow: the entry point composing the above
//
// # Ports
//
// Cloud and CloudFactory describe the provider operations the workflow needs.
// TaskSink describes where progress notes go. Clock is the only suspension
// point, so tests can run the poll ceiling without wall-clock delay.
package provisioning
