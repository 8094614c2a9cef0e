// Package viewer turns server-provided display parameters into a running
// remote-viewer session.
//
// Params is an ordered mapping of scalar display settings decoded from the
// machine API. Policy layers the client-side presentation defaults on top,
// WriteArtifact renders the result as a [virt-viewer] file, BuildCommand
// assembles the remote-viewer invocation, and Resolver locates the
// remote-viewer executable using a platform specific strategy (search path
// probing or the Windows file-association registry entry).
package viewer
