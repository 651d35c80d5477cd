// Package batch splits a slice of work items into fixed-size batches and runs
// a callback over them, sequentially or with bounded concurrency.
//
// The engine uses it to fan estimation scenarios out to a limited number of
// goroutines while keeping memory proportional to the batch size. Progress
// is reported through an optional callback after each batch completes.
package batch
