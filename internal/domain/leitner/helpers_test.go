package leitner

import "github.com/phrazzld/leitner/internal/domain"

func card(front string) domain.Card {
	return domain.Card{Front: front, Back: front + " answer", Hint: front + " hint"}
}

// bucketOf returns the bucket holding c, or -1 when c is absent.
func bucketOf(b BucketMap, c domain.Card) int {
	bucket, ok := b.Locate(c)
	if !ok {
		return -1
	}
	return bucket
}
