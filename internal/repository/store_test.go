package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStoreSnapshotReflectsLatestSwap(t *testing.T) {
	first := &Repository{}
	second := &Repository{}

	store := NewStore(first)
	assert.Same(t, first, store.Snapshot())

	store.Swap(second)
	assert.Same(t, second, store.Snapshot())
}

func TestStoreSnapshotIsNilBeforeFirstSwap(t *testing.T) {
	store := NewStore(nil)
	assert.Nil(t, store.Snapshot())
}
