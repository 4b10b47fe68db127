// Package deckfile implements store.DeckStore on top of a single YAML file.
//
// The file holds every deck keyed by name:
//
//	version: 1
//	decks:
//	  french:
//	    buckets:
//	      0:
//	        - front: bonjour
//	          back: hello
//	      2: []
//	    reviews:
//	      - id: 5f0c...
//	        difficulty: easy
//	        ...
//
// Writes replace the file atomically through a temporary file and rename.
package deckfile
