// Package bridge lowers evaluator instruction streams into the code
// generator and wraps the resulting artifacts in typed runners.
//
// A runner is fixed to one numeric domain (real or complex), one backend
// (compiled or interpreted) and one buffer layout (scalar rows, lane-major
// vector blocks, or row-major rows gathered into lanes internally).
package bridge
