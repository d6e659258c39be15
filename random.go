// Copyright 2022 Ian Parberry
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package curvedline

import (
	"math/rand/v2"
	"sync"
	"time"
)

// RandomSource is a seeded pseudo-random number generator. The same seed
// always produces the same sequence of numbers.
//
// A RandomSource is safe for concurrent use, draws are serialized.
type RandomSource struct {
	mutex *sync.Mutex
	seed  uint64
	pcg   *rand.PCG
	r     *rand.Rand
}

// NewRandomSource returns a new source seeded with seed.
func NewRandomSource(seed uint64) *RandomSource {
	pcg := rand.NewPCG(seed, 0)
	return &RandomSource{
		mutex: new(sync.Mutex),
		seed:  seed,
		pcg:   pcg,
		r:     rand.New(pcg),
	}
}

// SeedFromTime returns a seed taken from the wall clock (in seconds).
func SeedFromTime() uint64 {
	return uint64(time.Now().Unix())
}

// Seed returns the seed the source was last seeded with.
func (src *RandomSource) Seed() uint64 {
	src.mutex.Lock()
	defer src.mutex.Unlock()
	return src.seed
}

// Reseed restarts the sequence with a new seed.
func (src *RandomSource) Reseed(seed uint64) {
	src.mutex.Lock()
	defer src.mutex.Unlock()
	src.seed = seed
	src.pcg.Seed(seed, 0)
}

// IntRange returns a uniformly distributed number between low and high,
// both inclusive. It panics if low > high.
func (src *RandomSource) IntRange(low, high int) int {
	if low > high {
		precondition("empty range [%d, %d]", low, high)
	}
	src.mutex.Lock()
	defer src.mutex.Unlock()
	return low + src.r.IntN(high-low+1)
}

// State returns the current generator state. Restoring it with Restore
// continues the sequence from exactly this point.
func (src *RandomSource) State() ([]byte, error) {
	src.mutex.Lock()
	defer src.mutex.Unlock()
	return src.pcg.MarshalBinary()
}

// Restore sets the generator state to one returned by State.
func (src *RandomSource) Restore(state []byte) error {
	src.mutex.Lock()
	defer src.mutex.Unlock()
	if err := src.pcg.UnmarshalBinary(state); err != nil {
		return WrapError(ErrCodeInvalidInput, err, "invalid generator state")
	}
	return nil
}
