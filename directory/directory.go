/*
 * Author: Markus Stenberg <fingon@iki.fi>
 *
 * Copyright (c) 2019 Markus Stenberg
 *
 * Created:       Thu Feb 14 09:02:55 2019 mstenber
 * Last modified: Tue Feb 19 15:10:12 2019 mstenber
 * Edit time:     48 min
 *
 */

// directory holds the inode table of mavfs: a fixed number of slots,
// each describing at most one live file as a name, a size, a creation
// time and an ordered list of block pool indexes. The table knows
// nothing about the pool; whoever releases a slot is responsible for
// freeing the blocks the entry pointed at.
//
// Like the pool, the table is single-owner mutable state with no
// internal locking.
package directory

import (
	"errors"
	"time"

	"github.com/fingon/go-mavfs/mlog"
)

// ErrFull is returned by AllocateSlot when every slot is used.
var ErrFull = errors.New("directory full")

// Entry is one inode. Blocks is in read order; its length is the
// real block count (no end marker values).
type Entry struct {
	Used    bool
	Name    string
	Size    uint64
	Created time.Time
	Blocks  []int
}

// Table is the fixed-capacity array of entries. A slot index has no
// meaning of its own; released slots get reused lowest-first.
type Table struct {
	Slots int

	entries []Entry
}

// Init makes the instance actually useful
func (self Table) Init() *Table {
	self.entries = make([]Entry, self.Slots)
	return &self
}

// FindByName returns the lowest used slot whose name matches exactly
// (case-sensitive), or -1 if there is none.
func (self *Table) FindByName(name string) int {
	for i := range self.entries {
		if self.entries[i].Used && self.entries[i].Name == name {
			return i
		}
	}
	return -1
}

// AllocateSlot returns the lowest unused slot. The slot stays unused
// until SetEntry commits it, so a file creation that fails later on
// leaves no trace here.
func (self *Table) AllocateSlot() (int, error) {
	for i := range self.entries {
		if !self.entries[i].Used {
			return i, nil
		}
	}
	return -1, ErrFull
}

// GetEntry returns the entry at slot; the pointer stays valid but the
// content is only meaningful while the slot is used.
func (self *Table) GetEntry(slot int) *Entry {
	return &self.entries[slot]
}

// SetEntry overwrites every field of the slot, stamps the creation
// time and marks the slot used. This is the only way a slot becomes
// live; entries are never updated piecemeal.
func (self *Table) SetEntry(slot int, name string, size uint64, blocks []int) {
	mlog.Printf2("directory/directory", "dt.SetEntry %d %s size:%v blocks:%v", slot, name, size, len(blocks))
	self.entries[slot] = Entry{Used: true, Name: name, Size: size,
		Created: time.Now(), Blocks: blocks}
}

// ReleaseSlot resets the slot back to its initial unused state.
func (self *Table) ReleaseSlot(slot int) {
	mlog.Printf2("directory/directory", "dt.ReleaseSlot %d", slot)
	self.entries[slot] = Entry{}
}

// IterateUsed calls fn for every used slot in slot index order (with
// slot reuse that is not arrival order). fn returning false stops the
// iteration; calling IterateUsed again restarts it.
func (self *Table) IterateUsed(fn func(slot int, e *Entry) bool) {
	for i := range self.entries {
		if self.entries[i].Used && !fn(i, &self.entries[i]) {
			return
		}
	}
}
