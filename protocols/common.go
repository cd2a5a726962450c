package protocols

import "github.com/hic4sh1e/protoselect/protoselect"

// Worker is the sample opaque "worker" handle these protocols expect
// in InitParams.Worker. The core treats the worker object as an
// external collaborator it only passes through; this minimal stand-in
// carries just enough for the sample protocols to read their
// cfg_thresh overrides during Init.
type Worker struct {
	Overrides protoselect.Overrides
}

// overridesFor extracts the override table from an InitParams' Worker
// handle, tolerating a nil or differently-typed worker (as a real
// deployment's worker object would be).
func overridesFor(params protoselect.InitParams) protoselect.Overrides {
	w, ok := params.Worker.(*Worker)
	if !ok || w == nil {
		return nil
	}
	return w.Overrides
}
