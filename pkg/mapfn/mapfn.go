package mapfn

// ConvertSlice converts a slice of type T to a slice of type R using the provided function
func ConvertSlice[T any, R any](input []T, fn func(T) R) []R {
	result := make([]R, len(input))
	for i, v := range input {
		result[i] = fn(v)
	}
	return result
}

// FilterSlice filters a slice based on the provided predicate function
func FilterSlice[T any](input []T, predicate func(T) bool) []T {
	result := make([]T, 0)
	for _, v := range input {
		if predicate(v) {
			result = append(result, v)
		}
	}
	return result
}

// MapSlice applies function to each element and returns new slice (alias for ConvertSlice)
func MapSlice[T any, R any](input []T, fn func(T) R) []R {
	return ConvertSlice(input, fn)
}

// Chunk splits a slice into consecutive parts of at most size elements
func Chunk[T any](input []T, size int) [][]T {
	if len(input) == 0 {
		return nil
	}
	if size <= 0 || size > len(input) {
		size = len(input)
	}
	chunks := make([][]T, 0, (len(input)+size-1)/size)
	for start := 0; start < len(input); start += size {
		end := min(start+size, len(input))
		chunks = append(chunks, input[start:end])
	}
	return chunks
}
