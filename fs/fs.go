/*
 * Author: Markus Stenberg <fingon@iki.fi>
 *
 * Copyright (c) 2019 Markus Stenberg
 *
 * Created:       Fri Feb 15 09:40:31 2019 mstenber
 * Last modified: Thu Feb 21 16:02:33 2019 mstenber
 * Edit time:     139 min
 *
 */

// fs is the file-level surface of mavfs: put/get/del/list/df on top
// of one blockpool.Pool and one directory.Table. This layer owns the
// validation order, the failure policy (a failed operation mutates
// nothing) and the blocks-to-bytes layout rules; the two structures
// underneath only ever change together, within a single operation.
//
// Everything is strictly synchronous and unsynchronized; the caller
// must not invoke operations concurrently.
package fs

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"time"

	"github.com/fingon/go-mavfs/blockpool"
	"github.com/fingon/go-mavfs/directory"
	"github.com/fingon/go-mavfs/mlog"
	"github.com/fingon/go-mavfs/util"
)

// The original MAV file system constants; see Config for overriding
// them (tests do, the shell does not).
const (
	DefaultDiskSize      = 1310720
	DefaultBlockSize     = 2048
	DefaultDirectorySize = 128
	DefaultMaxFileSize   = 98304
	MaxNameLength        = 255
)

var (
	ErrInvalidName       = errors.New("invalid file name")
	ErrFileTooLarge      = errors.New("exceeds maximum supported file size")
	ErrInsufficientSpace = errors.New("not enough disk space")
	ErrExists            = errors.New("file already exists")
	ErrNotFound          = errors.New("file not found")
)

// Names are 1..255 characters of letters, digits and periods; nothing
// else, anchored at both ends. Same pattern the original used.
var nameRegexp = regexp.MustCompile("^[a-zA-Z0-9.]{1,255}$")

// Config carries the startup constants. Zero values mean the MAV
// defaults above; none of them change at runtime.
type Config struct {
	DiskSize      uint64 // total virtual disk bytes
	BlockSize     uint64 // bytes per block
	DirectorySize int    // max simultaneous files
	MaxFileSize   uint64 // per-file byte ceiling
}

// Fs owns the block pool and the directory table and composes them
// into file operations.
type Fs struct {
	Config

	Pool *blockpool.Pool
	Dir  *directory.Table
}

// FileInfo is one row of List output.
type FileInfo struct {
	Name    string
	Size    uint64
	Created time.Time
}

// Init makes the instance actually useful
func (self Fs) Init() *Fs {
	if self.DiskSize == 0 {
		self.DiskSize = DefaultDiskSize
	}
	if self.BlockSize == 0 {
		self.BlockSize = DefaultBlockSize
	}
	if self.DirectorySize == 0 {
		self.DirectorySize = DefaultDirectorySize
	}
	if self.MaxFileSize == 0 {
		self.MaxFileSize = DefaultMaxFileSize
	}
	self.Pool = blockpool.Pool{BlockSize: self.BlockSize,
		TotalBlocks: int(self.DiskSize / self.BlockSize)}.Init()
	self.Dir = directory.Table{Slots: self.DirectorySize}.Init()
	return &self
}

// Put stores size bytes read from source under name. All validation
// happens before anything is allocated, so a refused put has touched
// neither the pool nor the directory; a put that fails mid-copy (bad
// source, or the should-not-happen pool exhaustion) unwinds the
// blocks it already took.
func (self *Fs) Put(name string, source io.Reader, size uint64) error {
	mlog.Printf2("fs/fs", "fs.Put %s size:%v", name, size)
	if !nameRegexp.MatchString(name) {
		return ErrInvalidName
	}
	if size > self.MaxFileSize {
		return ErrFileTooLarge
	}
	if size > self.Pool.GetBytesAvailable() {
		return ErrInsufficientSpace
	}
	// The original allowed a second live entry with the same name
	// here, unreachable by get/del. Refuse instead.
	if self.Dir.FindByName(name) >= 0 {
		return ErrExists
	}
	slot, err := self.Dir.AllocateSlot()
	if err != nil {
		return err
	}
	blocks, err := self.copyIn(source, size)
	if err != nil {
		return err
	}
	self.Dir.SetEntry(slot, name, size, blocks)
	return nil
}

// copyIn streams size bytes into freshly allocated blocks, a block at
// a time, and returns the indexes in write order. On any failure the
// blocks taken so far go back to the pool.
func (self *Fs) copyIn(source io.Reader, size uint64) ([]int, error) {
	blocks := make([]int, 0, (size+self.BlockSize-1)/self.BlockSize)
	release := func() {
		for _, index := range blocks {
			self.Pool.Release(index)
		}
	}
	buf := make([]byte, self.BlockSize)
	remaining := size
	for remaining > 0 {
		n := util.IMin(int(remaining), int(self.BlockSize))
		if _, err := io.ReadFull(source, buf[:n]); err != nil {
			release()
			return nil, fmt.Errorf("reading source: %w", err)
		}
		index, err := self.Pool.Allocate()
		if err != nil {
			// Unreachable while the free-space pre-check
			// holds; unwind rather than leak anyway.
			release()
			return nil, err
		}
		self.Pool.SetBlockData(index, buf[:n])
		blocks = append(blocks, index)
		remaining -= uint64(n)
	}
	return blocks, nil
}

// Get writes the stored content of name to sink: exactly Size bytes,
// blocks in list order.
func (self *Fs) Get(name string, sink io.Writer) error {
	mlog.Printf2("fs/fs", "fs.Get %s", name)
	slot := self.Dir.FindByName(name)
	if slot < 0 {
		return ErrNotFound
	}
	e := self.Dir.GetEntry(slot)
	remaining := e.Size
	for _, index := range e.Blocks {
		// Copy only the meaningful prefix of the final block;
		// a full block would append garbage.
		n := util.IMin(int(remaining), int(self.BlockSize))
		if _, err := sink.Write(self.Pool.GetBlockData(index)[:n]); err != nil {
			return fmt.Errorf("writing sink: %w", err)
		}
		remaining -= uint64(n)
	}
	return nil
}

// Delete frees every block the entry owns and then the slot itself,
// in that order. This is the one operation that re-synchronizes pool
// and directory bookkeeping in a single step.
func (self *Fs) Delete(name string) error {
	mlog.Printf2("fs/fs", "fs.Delete %s", name)
	slot := self.Dir.FindByName(name)
	if slot < 0 {
		return ErrNotFound
	}
	for _, index := range self.Dir.GetEntry(slot).Blocks {
		self.Pool.Release(index)
	}
	self.Dir.ReleaseSlot(slot)
	return nil
}

// List returns (name, size, creation time) of every live file in
// slot index order. An empty result is the observable no-files
// condition, not an error.
func (self *Fs) List() []FileInfo {
	infos := []FileInfo{}
	self.Dir.IterateUsed(func(slot int, e *directory.Entry) bool {
		infos = append(infos, FileInfo{Name: e.Name, Size: e.Size,
			Created: e.Created})
		return true
	})
	return infos
}

// GetBytesAvailable returns number of bytes free on the virtual disk.
func (self *Fs) GetBytesAvailable() uint64 {
	return self.Pool.GetBytesAvailable()
}
