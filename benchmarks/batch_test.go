package benchmarks

import (
	"testing"

	"github.com/destel/rill"
	"github.com/lguimbarda/min-train/train"
	"github.com/samber/lo"
)

// =============================================================================
// Batching Benchmarks
// =============================================================================

func BenchmarkBatch_MinTrain_Narrow(b *testing.B) {
	benchmarkBatchMinTrain(b, MediumSize, NarrowBatch)
}

func BenchmarkBatch_MinTrain_Wide(b *testing.B) {
	benchmarkBatchMinTrain(b, LargeSize, WideBatch)
}

func benchmarkBatchMinTrain(b *testing.B, size, width int) {
	data := generateInts(size)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		sum := 0
		_ = train.MapBatches(ctx, func(batch []int) error {
			sum += sumSquares(batch)
			return nil
		}, train.FromSlice(data), capacity(width))
		_ = sum
	}
}

func BenchmarkBatch_Lo_Narrow(b *testing.B) {
	benchmarkBatchLo(b, MediumSize, NarrowBatch)
}

func BenchmarkBatch_Lo_Wide(b *testing.B) {
	benchmarkBatchLo(b, LargeSize, WideBatch)
}

func benchmarkBatchLo(b *testing.B, size, width int) {
	data := generateInts(size)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		sum := 0
		for _, batch := range lo.Chunk(data, width) {
			sum += sumSquares(batch)
		}
		_ = sum
	}
}

func BenchmarkBatch_Rill_Narrow(b *testing.B) {
	benchmarkBatchRill(b, MediumSize, NarrowBatch)
}

func BenchmarkBatch_Rill_Wide(b *testing.B) {
	benchmarkBatchRill(b, LargeSize, WideBatch)
}

func benchmarkBatchRill(b *testing.B, size, width int) {
	data := generateInts(size)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		batches := rill.Batch(rill.FromSlice(data, nil), width, -1)
		sum := 0
		for res := range batches {
			sum += sumSquares(res.Value)
		}
		_ = sum
	}
}

func BenchmarkBatch_RawLoop_Narrow(b *testing.B) {
	benchmarkBatchRawLoop(b, MediumSize, NarrowBatch)
}

func BenchmarkBatch_RawLoop_Wide(b *testing.B) {
	benchmarkBatchRawLoop(b, LargeSize, WideBatch)
}

func benchmarkBatchRawLoop(b *testing.B, size, width int) {
	data := generateInts(size)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		sum := 0
		for start := 0; start < len(data); start += width {
			end := min(start+width, len(data))
			sum += sumSquares(data[start:end])
		}
		_ = sum
	}
}
