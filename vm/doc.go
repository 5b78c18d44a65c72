// Package vm turns bytecode programs into executable artifacts.
//
// This package contains:
//   - Config, the options an artifact is compiled under
//   - Translator, the append-only front door used by the bridge
//   - Two kernel backends: closure-compiled and decode/dispatch interpreted
//   - Batch execution over row-major and lane-major buffers
//   - The persisted artifact format (SJIT)
package vm
