package tailwindify

// GroupSize returns max(1, total/parallelism).
func GroupSize(total, parallelism int) int {
	if parallelism < 1 {
		parallelism = 1
	}
	return max(1, total/parallelism)
}

// Partition splits files into contiguous groups of GroupSize files, in order.
// The last group may be smaller. No files means no groups.
func Partition(files []SourceFile, parallelism int) [][]SourceFile {
	if len(files) == 0 {
		return nil
	}

	size := GroupSize(len(files), parallelism)
	groups := make([][]SourceFile, 0, (len(files)+size-1)/size)
	for start := 0; start < len(files); start += size {
		end := min(start+size, len(files))
		groups = append(groups, files[start:end:end])
	}
	return groups
}
