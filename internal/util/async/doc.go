// Package async provides utilities for parallel task execution with
// error collection.
//
// [RunParallel] executes independent operations concurrently. The applier
// uses it to create every node of a dependency wave at the same time.
package async
