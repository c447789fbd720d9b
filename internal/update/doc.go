// Package update checks for newer releases and performs an unattended
// install-and-relaunch.
//
// The check half (Checker, SelectAsset, IsNewer) runs inside the main
// application. The run half (Runner) runs in a sidecar process spawned with
// Args so it can outlive the application it replaces:
//
//	waiting -> downloading -> installing -> relaunching
//
// Each phase emits a Snapshot on entry and on completion. The waiting phase
// has no timeout; only cancelling the context stops it.
package update
