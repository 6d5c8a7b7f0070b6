package core

import "fmt"

// MerkleTree commits to an ordered list of leaves. Leaf count must be a
// power of two; every committed codeword in the protocol has power-of-two
// length, so no padding rule is needed.
type MerkleTree struct {
	suite  HashSuite
	levels [][]Digest // levels[0] holds leaf digests, last level holds the root
}

// NewMerkleTree hashes the given leaves and builds the tree bottom-up.
func NewMerkleTree(suite HashSuite, leaves [][]byte) (*MerkleTree, error) {
	if !IsPowerOfTwo(len(leaves)) {
		return nil, fmt.Errorf("leaf count must be a power of 2, got %d", len(leaves))
	}

	level := make([]Digest, len(leaves))
	for i, leaf := range leaves {
		level[i] = suite.Hash(leaf)
	}

	levels := [][]Digest{level}
	for len(level) > 1 {
		next := make([]Digest, len(level)/2)
		for i := range next {
			next[i] = suite.HashPair(level[2*i], level[2*i+1])
		}
		levels = append(levels, next)
		level = next
	}

	return &MerkleTree{suite: suite, levels: levels}, nil
}

// Root returns the Merkle root.
func (t *MerkleTree) Root() Digest {
	return t.levels[len(t.levels)-1][0]
}

// Depth returns the path length for any leaf.
func (t *MerkleTree) Depth() int {
	return len(t.levels) - 1
}

// Path returns the authentication path for the leaf at index: the sibling
// digest at every level, bottom-up.
func (t *MerkleTree) Path(index int) ([]Digest, error) {
	if index < 0 || index >= len(t.levels[0]) {
		return nil, fmt.Errorf("leaf index %d out of range [0, %d)", index, len(t.levels[0]))
	}

	path := make([]Digest, 0, t.Depth())
	for level := 0; level < t.Depth(); level++ {
		path = append(path, t.levels[level][index^1])
		index >>= 1
	}
	return path, nil
}

// VerifyPath recomputes the root from a leaf and its authentication path and
// compares against the committed root. The index's bits decide left/right
// ordering at each level.
func VerifyPath(suite HashSuite, root Digest, index int, leaf []byte, path []Digest) bool {
	return VerifyPathDigest(suite, root, index, suite.Hash(leaf), path)
}

// VerifyPathDigest is VerifyPath for a leaf that is already a digest.
func VerifyPathDigest(suite HashSuite, root Digest, index int, leaf Digest, path []Digest) bool {
	if index < 0 || index >= 1<<len(path) {
		return false
	}
	cur := leaf
	for _, sibling := range path {
		if index&1 == 1 {
			cur = suite.HashPair(sibling, cur)
		} else {
			cur = suite.HashPair(cur, sibling)
		}
		index >>= 1
	}
	return cur == root
}
