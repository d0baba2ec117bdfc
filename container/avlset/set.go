/*
 * Copyright 2025 CloudWeGo Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package avlset provides a sorted multiset with value-owning nodes on top
// of avltree. Use it when elements live on the Go heap; for elements placed
// in foreign memory use avltree directly.
package avlset

import (
	"golang.org/x/exp/constraints"

	"github.com/cloudwego/memkit/container/avltree"
)

// Set is a sorted collection permitting duplicate elements.
// Set is not safe for concurrent use.
type Set[T any] struct {
	tree  *avltree.Tree[T]
	less  func(a, b T) bool
	count int
}

// New creates an empty set over a naturally ordered element type.
func New[T constraints.Ordered]() *Set[T] {
	return NewFunc[T](func(a, b T) bool { return a < b })
}

// NewFunc creates an empty set ordered by less.
func NewFunc[T any](less func(a, b T) bool) *Set[T] {
	if less == nil {
		panic("avlset: nil comparator")
	}
	return &Set[T]{
		tree: avltree.New(func(a, b *avltree.Node[T]) bool {
			return less(a.Value, b.Value)
		}),
		less: less,
	}
}

// Len returns the number of elements, counting duplicates.
func (s *Set[T]) Len() int {
	return s.count
}

// Empty reports whether the set has no elements.
func (s *Set[T]) Empty() bool {
	return s.count == 0
}

// Insert adds v and returns an iterator positioned on the new element.
// Equal elements accumulate; Insert never replaces.
func (s *Set[T]) Insert(v T) Iterator[T] {
	n := &avltree.Node[T]{Value: v}
	s.tree.Insert(n)
	s.count++
	return Iterator[T]{set: s, node: n}
}

// Erase removes the element it points at and returns an iterator to the
// following element. Erase panics on an invalid iterator.
func (s *Set[T]) Erase(it Iterator[T]) Iterator[T] {
	if it.set != s || it.node == nil {
		panic("avlset: erase of invalid iterator")
	}
	next := it.Next()
	s.tree.Erase(it.node)
	s.count--
	return next
}

// Find returns an iterator on an element equal to v, invalid when absent.
// With duplicates present any one of them may be returned.
func (s *Set[T]) Find(v T) Iterator[T] {
	n := s.tree.Search(func(n *avltree.Node[T]) int {
		switch {
		case s.less(v, n.Value):
			return -1
		case s.less(n.Value, v):
			return 1
		}
		return 0
	})
	return Iterator[T]{set: s, node: n}
}

// First returns an iterator on the smallest element, invalid when empty.
func (s *Set[T]) First() Iterator[T] {
	return Iterator[T]{set: s, node: s.tree.Head()}
}

// Last returns an iterator on the largest element, invalid when empty.
func (s *Set[T]) Last() Iterator[T] {
	return Iterator[T]{set: s, node: s.tree.Tail()}
}

// Clear removes all elements.
func (s *Set[T]) Clear() {
	s.tree.Clear(nil)
	s.count = 0
}

// Iterator designates one element of a Set. The zero Iterator is invalid.
// Iterators stay valid across mutations except erasure of their own element.
type Iterator[T any] struct {
	set  *Set[T]
	node *avltree.Node[T]
}

// Valid reports whether the iterator designates an element.
func (it Iterator[T]) Valid() bool {
	return it.node != nil
}

// Value returns the designated element. It panics when invalid.
func (it Iterator[T]) Value() T {
	return it.node.Value
}

// Pointer returns the address of the designated element's storage, which
// stays stable for the element's lifetime. It panics when invalid.
func (it Iterator[T]) Pointer() *T {
	return &it.node.Value
}

// Next returns an iterator on the following element. Advancing past the
// largest element yields an invalid iterator; advancing an invalid iterator
// yields the smallest element, so iteration wraps around one invalid state.
func (it Iterator[T]) Next() Iterator[T] {
	if it.node == nil {
		return it.set.First()
	}
	return Iterator[T]{set: it.set, node: it.set.tree.Next(it.node)}
}

// Prev returns an iterator on the preceding element, with wraparound
// symmetric to Next.
func (it Iterator[T]) Prev() Iterator[T] {
	if it.node == nil {
		return it.set.Last()
	}
	return Iterator[T]{set: it.set, node: it.set.tree.Prev(it.node)}
}
