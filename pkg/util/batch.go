package util

// Batch 将切片按固定大小拆分，最后一批可能小于 batchSize。
// batchSize <= 0 时整体作为一批；返回的每一批都是独立拷贝。
func Batch[T any](items []T, batchSize int) [][]T {
	if len(items) == 0 {
		return nil
	}
	if batchSize <= 0 {
		batchSize = len(items)
	}
	result := make([][]T, 0, (len(items)+batchSize-1)/batchSize)
	for start := 0; start < len(items); start += batchSize {
		end := min(start+batchSize, len(items))
		chunk := make([]T, end-start)
		copy(chunk, items[start:end])
		result = append(result, chunk)
	}
	return result
}
