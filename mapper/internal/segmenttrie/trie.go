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

// Package segmenttrie indexes dot-separated reason prefixes for
// longest-prefix-match lookups. A "*" segment matches exactly one segment.
package segmenttrie

import (
	"errors"
	"strings"
)

// Trie is a segment-aware prefix index. Each node is one segment. A Trie
// must not be modified once lookups run concurrently.
type Trie[T any] struct {
	children map[string]*Trie[T]
	hasVal   bool
	val      T
	// pattern is the prefix as inserted, kept for MatchWithPattern.
	pattern string
	size    int
}

// ErrInvalidPrefix is returned for empty prefixes, empty or malformed
// segments, and prefixes made only of wildcards.
var ErrInvalidPrefix = errors.New("segmenttrie: invalid prefix")

// New creates an empty trie.
func New[T any]() *Trie[T] {
	return &Trie[T]{children: make(map[string]*Trie[T])}
}

// Insert associates val with a dot-separated prefix such as "dest" or
// "src.*.max". Inserting the same prefix twice replaces the value.
func (t *Trie[T]) Insert(prefix string, val T) error {
	if t == nil || prefix == "" {
		return ErrInvalidPrefix
	}
	segs := strings.Split(prefix, ".")
	concrete := false
	for _, s := range segs {
		if s == "*" {
			continue
		}
		if !validSegment(s) {
			return ErrInvalidPrefix
		}
		concrete = true
	}
	if !concrete {
		return ErrInvalidPrefix
	}

	cur := t
	for _, s := range segs {
		child, ok := cur.children[s]
		if !ok {
			child = New[T]()
			cur.children[s] = child
		}
		cur = child
	}
	if !cur.hasVal {
		t.size++
	}
	cur.hasVal = true
	cur.val = val
	cur.pattern = prefix
	return nil
}

// Len returns the number of stored prefixes.
func (t *Trie[T]) Len() int {
	if t == nil {
		return 0
	}
	return t.size
}

// Match returns the value of the deepest prefix matching reason. Exact and
// wildcard branches are both explored; at equal depth the exact branch
// wins. A malformed reason matches only up to its first bad segment.
func (t *Trie[T]) Match(reason string) (T, bool) {
	v, ok, _ := t.MatchWithPattern(reason)
	return v, ok
}

// MatchWithPattern is Match that also returns the matched prefix as it was
// inserted.
func (t *Trie[T]) MatchWithPattern(reason string) (T, bool, string) {
	var zero T
	if t == nil {
		return zero, false, ""
	}
	best := (*Trie[T])(nil)
	bestDepth := -1
	t.walk(reason, 0, 0, func(n *Trie[T], depth int) {
		if depth > bestDepth {
			best, bestDepth = n, depth
		}
	})
	if best == nil {
		return zero, false, ""
	}
	return best.val, true, best.pattern
}

// walk visits every valued node reachable by consuming reason from off.
// The exact child is visited before the wildcard, so it wins ties.
func (t *Trie[T]) walk(reason string, off, depth int, visit func(*Trie[T], int)) {
	if t.hasVal {
		visit(t, depth)
	}
	if off >= len(reason) {
		return
	}
	end, ok := scanSegment(reason, off)
	if !ok {
		return
	}
	next := end
	if next < len(reason) {
		next++
	}
	if c, ok := t.children[reason[off:end]]; ok {
		c.walk(reason, next, depth+1, visit)
	}
	if c, ok := t.children["*"]; ok {
		c.walk(reason, next, depth+1, visit)
	}
}

// scanSegment returns the end of the segment starting at off and whether
// it is well formed.
func scanSegment(s string, off int) (int, bool) {
	if s[off] < 'a' || s[off] > 'z' {
		return off, false
	}
	i := off + 1
	for ; i < len(s) && s[i] != '.'; i++ {
		if !segmentByte(s[i]) {
			return i, false
		}
	}
	return i, true
}

// validSegment reports whether seg matches [a-z][a-z0-9_]*.
func validSegment(seg string) bool {
	if seg == "" || seg[0] < 'a' || seg[0] > 'z' {
		return false
	}
	for i := 1; i < len(seg); i++ {
		if !segmentByte(seg[i]) {
			return false
		}
	}
	return true
}

func segmentByte(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '_'
}
