// Package transform provides the source and code transform back ends used
// by the pipeline runner.
//
// The real collaborator transforms are owned elsewhere. The command back end
// delegates to them as an external program; identity and banner are local
// back ends for builds that need no collaborator.
//
// Command protocol:
//
//	source mode: raw text on stdin, transformed text on stdout
//	code mode:   pipeline.Params as JSON on stdin, {"code": ...} JSON on stdout
//
// Absent metadata fields are omitted from the JSON, never sent as "".
package transform
