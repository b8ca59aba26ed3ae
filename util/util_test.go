/*
 * Author: Markus Stenberg <fingon@iki.fi>
 *
 * Copyright (c) 2019 Markus Stenberg
 *
 * Created:       Tue Feb 12 09:53:11 2019 mstenber
 * Last modified: Tue Feb 12 09:56:30 2019 mstenber
 * Edit time:     2 min
 *
 */

package util

import (
	"testing"

	"github.com/stvp/assert"
)

func TestIMin(t *testing.T) {
	t.Parallel()

	assert.Equal(t, IMin(1, 2), 1)
	assert.Equal(t, IMin(2, 1), 1)
	assert.Equal(t, IMin(3), 3)
}

func TestIMax(t *testing.T) {
	t.Parallel()

	assert.Equal(t, IMax(1, 2), 2)
	assert.Equal(t, IMax(2, 1), 2)
	assert.Equal(t, IMax(3), 3)
}
