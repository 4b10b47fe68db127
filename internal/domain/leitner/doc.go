// Package leitner implements the bucket scheduler: which cards are due on a
// given day and how a review moves a card between buckets.
//
// Bucket state comes in two forms. BucketMap is the sparse, authoritative
// form (bucket number to set of cards). The dense form, a []CardSet indexed
// by bucket number, is derived from it with ToBucketSets and is what the
// scheduler and progress reporting read.
//
// Every function in this package is pure or copy-on-write. Update returns a
// new BucketMap and never modifies its input, so readers of an earlier state
// are never disturbed. Callers sharing one BucketMap between writers must
// serialize their calls to Update themselves.
package leitner
