/*
 * Author: Markus Stenberg <fingon@iki.fi>
 *
 * Copyright (c) 2019 Markus Stenberg
 *
 * Created:       Wed Feb 13 11:17:40 2019 mstenber
 * Last modified: Tue Feb 19 14:33:05 2019 mstenber
 * Edit time:     57 min
 *
 */

// blockpool is the flat pool of fixed-size blocks underneath the
// mavfs directory layer. Blocks are handed out first-fit (lowest
// free index wins) and occupancy is a per-block state enum, so the
// pool can also answer the aggregate free/used byte questions.
//
// The pool is a single-owner mutable structure with no internal
// locking; not calling it from multiple goroutines at once is the
// caller's job.
package blockpool

import (
	"errors"
	"log"

	"github.com/fingon/go-mavfs/mlog"
)

// BlockState is the occupancy of a single block.
type BlockState byte

const (
	BlockFree BlockState = iota
	BlockInUse
)

// ErrExhausted is returned by Allocate when no free block exists.
// Callers that pre-check GetBytesAvailable never see it; if it shows
// up anyway, block bookkeeping is broken somewhere and it should not
// be confused with a plain out-of-space condition.
var ErrExhausted = errors.New("block pool exhausted")

// Pool is the in-memory virtual disk: TotalBlocks blocks of
// BlockSize bytes each.
type Pool struct {
	BlockSize   uint64
	TotalBlocks int

	data  [][]byte
	state []BlockState
}

// Init makes the instance actually useful
func (self Pool) Init() *Pool {
	self.data = make([][]byte, self.TotalBlocks)
	for i := range self.data {
		self.data[i] = make([]byte, self.BlockSize)
	}
	self.state = make([]BlockState, self.TotalBlocks)
	return &self
}

// Allocate marks the lowest-indexed free block InUse and returns its
// index.
func (self *Pool) Allocate() (int, error) {
	for i := 0; i < self.TotalBlocks; i++ {
		if self.state[i] == BlockFree {
			self.state[i] = BlockInUse
			mlog.Printf2("blockpool/blockpool", "bp.Allocate %d", i)
			return i, nil
		}
	}
	return -1, ErrExhausted
}

// Release marks the block free again and zeroes its content so a
// later Allocate never hands out stale bytes. The block MUST be
// InUse; ownership is tracked by the directory layer, and releasing
// a free block means that tracking has failed.
func (self *Pool) Release(index int) {
	if self.state[index] != BlockInUse {
		log.Panicf("Release of free block %d", index)
	}
	mlog.Printf2("blockpool/blockpool", "bp.Release %d", index)
	for i := range self.data[index] {
		self.data[index][i] = 0
	}
	self.state[index] = BlockFree
}

// SetBlockData copies data to the start of the block. Short data is
// fine (the final block of a file rarely fills up); long data is not.
func (self *Pool) SetBlockData(index int, data []byte) {
	if uint64(len(data)) > self.BlockSize {
		log.Panicf("SetBlockData of %d bytes > block size %d", len(data), self.BlockSize)
	}
	copy(self.data[index], data)
}

// GetBlockData returns the block's content. The slice is the pool's
// own storage and is valid only until the block is released.
func (self *Pool) GetBlockData(index int) []byte {
	return self.data[index]
}

// GetBytesAvailable returns number of bytes available.
func (self *Pool) GetBytesAvailable() uint64 {
	n := 0
	for _, st := range self.state {
		if st == BlockFree {
			n++
		}
	}
	return uint64(n) * self.BlockSize
}

// GetBytesUsed returns number of bytes used.
func (self *Pool) GetBytesUsed() uint64 {
	return uint64(self.TotalBlocks)*self.BlockSize - self.GetBytesAvailable()
}
