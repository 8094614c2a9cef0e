// Package machines is the HTTP client for the virtual desktop control plane.
//
// A Client is built from Credentials and issues one basic-authenticated
// request per operation: listing machines, powering them on and off,
// taking and releasing the server-side lock, and fetching the display
// parameters remote-viewer needs. Failures are tagged with the services
// markers: ErrTransport for network and TLS problems, ErrRequestFailed for
// non-2xx responses and ErrDecode for bodies that do not parse.
//
// The client keeps no state besides its HTTP connection pool and is safe for
// concurrent use.
package machines
