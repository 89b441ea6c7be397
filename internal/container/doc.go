// SPDX-License-Identifier: MPL-2.0

// Package container provides an abstraction layer over container engine
// CLIs (Docker and Podman).
//
// Engines are driven through their command-line binaries rather than their
// HTTP APIs so that Docker and Podman are supported uniformly, including
// rootless Podman setups where no daemon socket exists. BaseCLIEngine holds
// the argument building and subprocess plumbing shared by both engines;
// the concrete types add only what differs (availability probing, SELinux
// volume labels, image existence checks).
package container
