// Package task runs batches of deck jobs on a bounded pool of workers.
// Jobs are queued on a TaskQueue and drained by a WorkerPool; RebuildDecks
// uses both to replay the review history of many decks concurrently.
package task
