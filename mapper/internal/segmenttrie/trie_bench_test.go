/*
   Copyright 2025 The DIRPX Authors

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package segmenttrie

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"
)

// genSegment returns a random segment matching [a-z][a-z0-9_]*.
func genSegment(rng *rand.Rand) string {
	n := 3 + rng.Intn(6)
	var b strings.Builder
	b.WriteByte(byte('a' + rng.Intn(26)))
	for i := 1; i < n; i++ {
		switch rng.Intn(3) {
		case 0:
			b.WriteByte(byte('a' + rng.Intn(26)))
		case 1:
			b.WriteByte(byte('0' + rng.Intn(10)))
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// buildTrie inserts n random prefixes of the given depth, with a wildcard
// every k-th segment when k > 0, and returns reasons extending each prefix
// by two segments.
func buildTrie(b *testing.B, n, depth, k int) (*Trie[int], []string) {
	rng := rand.New(rand.NewSource(1))
	tr := New[int]()
	reasons := make([]string, 0, n)

	for i := 0; i < n; i++ {
		pat := make([]string, depth)
		hit := make([]string, depth, depth+2)
		for j := range pat {
			hit[j] = genSegment(rng)
			pat[j] = hit[j]
			if k > 0 && (j+1)%k == 0 {
				pat[j] = "*"
			}
		}
		if err := tr.Insert(strings.Join(pat, "."), i); err != nil {
			b.Fatalf("insert %q: %v", strings.Join(pat, "."), err)
		}
		reasons = append(reasons, strings.Join(append(hit, genSegment(rng), genSegment(rng)), "."))
	}
	return tr, reasons
}

func BenchmarkMatch(b *testing.B) {
	for _, tc := range []struct{ n, depth, k int }{
		{16, 2, 0},
		{256, 3, 0},
		{256, 3, 2},
		{4096, 4, 3},
	} {
		b.Run(fmt.Sprintf("n=%d/depth=%d/wild=%d", tc.n, tc.depth, tc.k), func(b *testing.B) {
			tr, reasons := buildTrie(b, tc.n, tc.depth, tc.k)
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, ok := tr.Match(reasons[i%len(reasons)]); !ok {
					b.Fatalf("no match for %q", reasons[i%len(reasons)])
				}
			}
		})
	}
}

func BenchmarkMatch_Miss(b *testing.B) {
	tr, _ := buildTrie(b, 256, 3, 0)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = tr.Match("zz9.none.of_these")
	}
}
