package cbs

import "math/rand"

// defaultRNGSeed is the fixed seed used when Options.Seed == 0.
const defaultRNGSeed int64 = 1

// rngFromSeed returns a deterministic *rand.Rand.
// Policy: seed==0 ⇒ defaultRNGSeed; otherwise the seed is used verbatim.
func rngFromSeed(seed int64) *rand.Rand {
	if seed == 0 {
		seed = defaultRNGSeed
	}

	return rand.New(rand.NewSource(seed))
}

// deriveSeed mixes a parent seed and a stream identifier with the SplitMix64
// finalizer so neighbouring stream ids give unrelated seeds.
//
// Complexity: O(1).
func deriveSeed(parent int64, stream uint64) int64 {
	x := uint64(parent) ^ (stream + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31

	return int64(x)
}

// streamRNG returns the tie-break stream for replanning agent on CT node idx.
// The stream depends only on (seed, idx, agent), never on goroutine scheduling,
// so parallel and sequential replanning draw the same numbers.
func streamRNG(seed int64, idx, agent int) *rand.Rand {
	if seed == 0 {
		seed = defaultRNGSeed
	}
	s := deriveSeed(seed, uint64(idx)<<20^uint64(agent))

	return rand.New(rand.NewSource(s))
}
