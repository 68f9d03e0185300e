// Package preflight checks that the machine and a target path can host an
// index before any data is written.
//
// The checks cover:
//   - Free disk space on the volume that will hold the index
//   - Write permission in the nearest existing directory
//   - The open file limit (segment files are held open while searching)
//   - The state of an index already at the path
//
// Use the Checker type to run them together:
//
//	checker := preflight.New(preflight.WithOutput(os.Stdout))
//	results := checker.RunAll(ctx, "/data/articles")
//	if checker.HasCriticalFailures(results) {
//	    // refuse to continue
//	}
package preflight
