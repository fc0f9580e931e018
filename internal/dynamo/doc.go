// Package dynamo provides the core value types of the gravity engine.
//
// The package defines the primitives shared by every other package:
//
//   - [Vec3]: three-dimensional vector with value semantics
//   - [Body]: point mass with position, velocity and derived angular momentum
//   - [History]: sampled trajectory of a single body lineage
//   - [HistorySet]: histories keyed by [BodyID], kept in creation order
//
// Bodies are identified by [BodyID] rather than by their index in a
// population slice. Populations are reordered and resized when bodies
// merge; IDs are not.
//
// # Errors
//
// Failures are reported with the sentinel errors in this package, wrapped in a
// [SimulationError] that records the step at which the run aborted:
//
//	if errors.Is(err, dynamo.ErrSingularity) {
//	    var serr *dynamo.SimulationError
//	    errors.As(err, &serr)
//	    fmt.Println("coincident bodies at step", serr.Step)
//	}
package dynamo
