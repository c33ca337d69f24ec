// Package services holds the plumbing shared by the external tool clients:
// error classification markers, the Wrap helper that builds stage-tagged
// error messages, and the line-streaming command executor the clients run
// their binaries through.
package services
