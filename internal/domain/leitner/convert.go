package leitner

import "slices"

// ToBucketSets converts the sparse bucket map into the dense form: a slice
// whose index is the bucket number. The result has length maxBucket+1 and
// every index holds a non-nil set; buckets missing from b are empty. An empty
// map yields an empty slice.
//
// The result shares no sets with b. Negative bucket numbers are rejected
// with ErrNegativeBucket.
func ToBucketSets(b BucketMap) ([]CardSet, error) {
	if len(b) == 0 {
		return []CardSet{}, nil
	}
	if err := b.checkBuckets(); err != nil {
		return nil, err
	}

	buckets := b.Buckets()
	maxBucket := slices.Max(buckets)

	sets := make([]CardSet, maxBucket+1)
	for i := range sets {
		sets[i] = CardSet{}
	}
	for _, bucket := range buckets {
		sets[bucket] = b[bucket].Clone()
	}

	return sets, nil
}
