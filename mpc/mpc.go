package mpc

// The replicated 3-party scheme admits exactly one valid access
// structure; every entry point validates against these constants before
// touching the network.
const (
	// Rep3NumParties is the number of parties of the replicated scheme.
	Rep3NumParties = 3
	// Rep3Threshold is the corruption threshold of the replicated scheme.
	Rep3Threshold = 1
)

// CheckRep3 validates a (threshold, parties) combination for the
// replicated 3-party scheme.
func CheckRep3(threshold, parties int) error {
	if threshold != Rep3Threshold {
		return Errorf(Config, "REP3 only allows the threshold to be %d, got %d", Rep3Threshold, threshold)
	}
	if parties != Rep3NumParties {
		return Errorf(Config, "REP3 only allows the number of parties to be %d, got %d", Rep3NumParties, parties)
	}
	return nil
}

// CheckShamir validates a (threshold, parties) combination for the
// Shamir scheme.
func CheckShamir(threshold, parties int) error {
	if threshold <= 0 || threshold >= parties {
		return Errorf(Config, "shamir requires 0 < t < n, got t=%d n=%d", threshold, parties)
	}
	return nil
}
