package cluster

import "math/rand/v2"

type Option func(*Network)

// WithSeed makes random choices (broadcast targets, drops) reproducible.
func WithSeed(seed uint64) Option {
	return func(n *Network) { n.rng = rand.New(rand.NewPCG(seed, seed)) }
}

// WithDropRate drops node-to-node envelopes with probability p. Client
// requests and replies are never dropped.
func WithDropRate(p float64) Option {
	return func(n *Network) {
		switch {
		case p < 0:
			n.dropRate = 0
		case p > 1:
			n.dropRate = 1
		default:
			n.dropRate = p
		}
	}
}

// WithMaxSteps bounds Run.
func WithMaxSteps(steps int) Option {
	return func(n *Network) {
		if steps > 0 {
			n.maxSteps = steps
		}
	}
}
