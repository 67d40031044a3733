package carver

import (
	"runtime"
	"sync"
)

// transpose swaps rows and columns of a row-major buffer holding
// width*height cells of n elements each.
func transpose[T any](src []T, width, height, n int) []T {
	dst := make([]T, len(src))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			si := (y*width + x) * n
			di := (x*height + y) * n
			copy(dst[di:di+n], src[si:si+n])
		}
	}
	return dst
}

// removeColumns drops from every row of a row-major buffer the cell found
// at seam[y]. Each cell holds n elements. The source buffer is left intact.
func removeColumns[T any](src []T, width, height, n int, seam Seam, workers int) []T {
	w := width - 1
	dst := make([]T, w*height*n)

	parallelRows(height, workers, func(y int) {
		x := seam[y]
		srow := src[y*width*n : (y+1)*width*n]
		drow := dst[y*w*n : (y+1)*w*n]
		copy(drow[:x*n], srow[:x*n])
		copy(drow[x*n:], srow[(x+1)*n:])
	})
	return dst
}

// parallelRows calls fn for every row in [0, height), splitting the rows in
// contiguous bands across at most workers goroutines. It returns once all
// rows are processed.
func parallelRows(height, workers int, fn func(y int)) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > height {
		workers = height
	}
	if workers <= 1 {
		for y := 0; y < height; y++ {
			fn(y)
		}
		return
	}

	var wg sync.WaitGroup
	band := (height + workers - 1) / workers

	for y0 := 0; y0 < height; y0 += band {
		y1 := min(y0+band, height)
		wg.Add(1)
		go func(y0, y1 int) {
			defer wg.Done()
			for y := y0; y < y1; y++ {
				fn(y)
			}
		}(y0, y1)
	}
	wg.Wait()
}
