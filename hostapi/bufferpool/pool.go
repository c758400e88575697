/*
Copyright (c) Facebook, Inc. and its affiliates.

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

// Package bufferpool implements hostapi.BufferPool by reusing
// fixed-capacity byte slices across frame builds, the same buffer-reuse
// idiom the cyclic-send worker loop uses for its scratch buffers, just
// pooled instead of held one-per-goroutine.
package bufferpool

import "sync"

// Pool hands out zero-length slices backed by reused arrays of at
// least the requested size.
type Pool struct {
	pool sync.Pool
}

// New creates a Pool whose buffers default to defaultSize capacity
// when the underlying sync.Pool is empty.
func New(defaultSize int) *Pool {
	p := &Pool{}
	p.pool.New = func() any {
		b := make([]byte, defaultSize)
		return &b
	}
	return p
}

// Get returns a buffer of length size, reusing pooled capacity when it
// is large enough.
func (p *Pool) Get(size int) []byte {
	bp := p.pool.Get().(*[]byte)
	b := *bp
	if cap(b) < size {
		b = make([]byte, size)
	}
	return b[:size]
}

// Put returns buf to the pool for reuse.
func (p *Pool) Put(buf []byte) {
	p.pool.Put(&buf)
}
