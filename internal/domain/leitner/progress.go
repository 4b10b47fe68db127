package leitner

// BucketRange is the span of occupied buckets.
type BucketRange struct {
	MinBucket int `json:"min_bucket" yaml:"min_bucket"`
	MaxBucket int `json:"max_bucket" yaml:"max_bucket"`
}

// Progress summarizes a deck's bucket occupancy.
type Progress struct {
	TotalCards int `json:"total_cards" yaml:"total_cards"`
	// MasteredCards is the number of cards in the highest-indexed bucket of
	// the dense form, whether or not that bucket is the highest occupied one.
	MasteredCards int   `json:"mastered_cards" yaml:"mastered_cards"`
	BucketCounts  []int `json:"bucket_counts"  yaml:"bucket_counts"`
}

// GetBucketRange returns the lowest and highest bucket holding at least one
// card. It returns false if every bucket is empty or sets has no buckets.
func GetBucketRange(sets []CardSet) (BucketRange, bool) {
	minBucket, maxBucket := -1, -1
	for i, cards := range sets {
		if len(cards) == 0 {
			continue
		}
		if minBucket < 0 {
			minBucket = i
		}
		maxBucket = i
	}

	if minBucket < 0 {
		return BucketRange{}, false
	}
	return BucketRange{MinBucket: minBucket, MaxBucket: maxBucket}, true
}

// ComputeProgress counts cards per bucket over the dense form.
func ComputeProgress(sets []CardSet) Progress {
	progress := Progress{
		BucketCounts: make([]int, len(sets)),
	}

	for i, cards := range sets {
		progress.BucketCounts[i] = len(cards)
		progress.TotalCards += len(cards)
	}
	if len(sets) > 0 {
		progress.MasteredCards = len(sets[len(sets)-1])
	}

	return progress
}
