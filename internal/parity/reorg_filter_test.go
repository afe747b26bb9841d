package parity

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestReorgFilterConfirmsAfterDepth(t *testing.T) {
	in := make(chan *Block)
	out := ReorgFilter(context.Background(), logrus.New(), in, 2)

	go func() {
		defer close(in)
		in <- &Block{Number: 1, Hash: "0xa", ParentHash: "0x0"}
		in <- &Block{Number: 2, Hash: "0xb", ParentHash: "0xa"}
		in <- &Block{Number: 3, Hash: "0xc", ParentHash: "0xb"}
	}()

	var confirmed []string
	for block := range out {
		confirmed = append(confirmed, block.Hash)
	}

	// only block 1 has two blocks chained on top of it
	assert.Equal(t, []string{"0xa"}, confirmed)
}

func TestReorgFilterDropsOrphanedBlocks(t *testing.T) {
	in := make(chan *Block)
	out := ReorgFilter(context.Background(), logrus.New(), in, 2)

	go func() {
		defer close(in)
		in <- &Block{Number: 1, Hash: "0xa", ParentHash: "0x0"}
		in <- &Block{Number: 2, Hash: "0xb", ParentHash: "0xa"}
		// reorg: a competing block 2 that builds on block 1
		in <- &Block{Number: 2, Hash: "0xb2", ParentHash: "0xa"}
		in <- &Block{Number: 3, Hash: "0xc", ParentHash: "0xb2"}
	}()

	var confirmed []string
	for block := range out {
		confirmed = append(confirmed, block.Hash)
	}

	// the orphaned 0xb never makes it out; 0xa is confirmed by 0xb2 and 0xc
	assert.Equal(t, []string{"0xa"}, confirmed)
}
