// Package provision applies generated channel names to a chat platform.
//
// The platform is reached only through the [Platform] interface, so the
// template engine never depends on a remote API. [Memory] is an in-process
// implementation whose [State] can be loaded from and saved to YAML or JSON,
// which lets a batch be planned and reviewed offline.
//
// Every batch operation of a [Provisioner] processes names one at a time,
// logs and records each failing name, and carries on with the rest; the
// returned [Report] lists what succeeded and what did not. Each batch is
// tagged with a random identifier in its log records.
package provision
