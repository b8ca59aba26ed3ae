/*
 * Author: Markus Stenberg <fingon@iki.fi>
 *
 * Copyright (c) 2019 Markus Stenberg
 *
 * Created:       Wed Feb 13 13:05:12 2019 mstenber
 * Last modified: Tue Feb 19 14:41:56 2019 mstenber
 * Edit time:     28 min
 *
 */

package blockpool

import (
	"testing"

	"github.com/stvp/assert"
)

func newPool(blocks int) *Pool {
	return Pool{BlockSize: 4, TotalBlocks: blocks}.Init()
}

func TestAllocateFirstFit(t *testing.T) {
	t.Parallel()
	p := newPool(4)
	for i := 0; i < 3; i++ {
		j, err := p.Allocate()
		assert.Nil(t, err)
		assert.Equal(t, j, i)
	}
	p.Release(1)
	j, err := p.Allocate()
	assert.Nil(t, err)
	assert.Equal(t, j, 1)
	j, err = p.Allocate()
	assert.Nil(t, err)
	assert.Equal(t, j, 3)
}

func TestExhausted(t *testing.T) {
	t.Parallel()
	p := newPool(2)
	p.Allocate()
	p.Allocate()
	_, err := p.Allocate()
	assert.Equal(t, err, ErrExhausted)
}

func TestReleaseZeroes(t *testing.T) {
	t.Parallel()
	p := newPool(1)
	i, _ := p.Allocate()
	p.SetBlockData(i, []byte("abcd"))
	assert.Equal(t, string(p.GetBlockData(i)), "abcd")
	p.Release(i)
	i2, _ := p.Allocate()
	assert.Equal(t, i2, i)
	assert.Equal(t, p.GetBlockData(i2), []byte{0, 0, 0, 0})
}

func TestShortBlockKeepsLength(t *testing.T) {
	t.Parallel()
	p := newPool(1)
	i, _ := p.Allocate()
	p.SetBlockData(i, []byte("ab"))
	assert.Equal(t, len(p.GetBlockData(i)), 4)
	assert.Equal(t, string(p.GetBlockData(i)[:2]), "ab")
}

func TestAccounting(t *testing.T) {
	t.Parallel()
	p := newPool(3)
	assert.Equal(t, p.GetBytesAvailable(), uint64(12))
	assert.Equal(t, p.GetBytesUsed(), uint64(0))
	i, _ := p.Allocate()
	assert.Equal(t, p.GetBytesAvailable(), uint64(8))
	assert.Equal(t, p.GetBytesUsed(), uint64(4))
	p.Release(i)
	assert.Equal(t, p.GetBytesAvailable(), uint64(12))
}

func TestReleaseOfFreePanics(t *testing.T) {
	t.Parallel()
	p := newPool(1)
	defer func() {
		assert.True(t, recover() != nil)
	}()
	p.Release(0)
}
