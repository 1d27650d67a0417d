//go:build unix

package procrun

// processBackend is the contract a non-POSIX launcher must satisfy to plug
// into the rest of this package: Stdio, the line scanner, and
// OutputFeedBuffer carry no build constraint, so a Windows
// CreateProcess backend, a JVM ProcessBuilder bridge, or a Node
// child_process bridge only needs to implement this one method and return a
// *Process wired the same way launch (launch_unix.go) wires one: stdin/
// stdout/stderr handles populated per the recipe's StdioTriple, and reap
// logic that populates the exit latch exactly once.
//
// No such backend ships in this repository, and this package itself only
// builds under the unix build constraint: Builder, Process and
// LaunchRecipe are unix-only types (see DESIGN.md's "Non-POSIX backend compilation" open
// question), so a real Windows/JVM/Node backend necessarily lives in its
// own package with its own process handle, implementing this contract at
// the point where it hands control back to shared, platform-neutral code.
type processBackend interface {
	launch(r *LaunchRecipe) (*Process, error)
}
