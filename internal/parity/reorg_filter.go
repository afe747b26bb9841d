package parity

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/hedisam/paritytracer/internal/ringbuffer"
	"github.com/hedisam/pipeline/chans"
)

// ReorgFilter holds incoming blocks back until confirmationDepth newer blocks
// have chained on top of them. A block whose parent hash doesn't match the
// newest buffered block signals a reorganisation; orphaned buffered blocks
// are dropped before they ever reach the indexer.
func ReorgFilter(ctx context.Context, logger *logrus.Logger, in <-chan *Block, confirmationDepth uint) <-chan *Block {
	out := make(chan *Block)

	go func() {
		defer close(out)

		rb := ringbuffer.New[*Block](confirmationDepth)
		for block := range chans.ReceiveOrDoneSeq(ctx, in) {
			logger := logger.WithFields(logrus.Fields{
				"block_hash":  block.Hash,
				"parent_hash": block.ParentHash,
			})
			// drop buffered blocks until the new block chains onto the tail,
			// or the buffer is empty
			for rb.Len() > 0 {
				tail, _ := rb.PeekBack()
				if block.ParentHash == tail.Hash {
					break
				}
				logger.WithField("tail_hash", tail.Hash).Warn("Chain reorganisation detected, dropping orphaned buffered block")
				rb.DropBack()
				reorgDroppedBlocks.Inc()
			}

			if rb.Full() {
				// the oldest buffered block is now confirmed
				first, _ := rb.PopFront()
				if !chans.SendOrDone(ctx, out, first) {
					return
				}
			}

			_ = rb.PushBack(block)
		}
	}()

	return out
}
