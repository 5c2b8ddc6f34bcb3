package utils

import (
	"sync"
	"sync/atomic"
)

// ParallelMap 并发地对 input 中每个元素执行 fn，结果按输入顺序返回。
// concurrency 限制同时运行的 goroutine 数；输入为空或单元素时直接处理，不起协程。
func ParallelMap[T any, R any](input []T, concurrency int, fn func(T) R) []R {
	n := len(input)
	if n == 0 {
		return nil
	}
	if n == 1 {
		return []R{fn(input[0])}
	}

	if concurrency <= 0 {
		concurrency = 1
	}
	if concurrency > n {
		concurrency = n
	}

	results := make([]R, n)
	var next int64 = -1
	var wg sync.WaitGroup
	wg.Add(concurrency)

	for w := 0; w < concurrency; w++ {
		go func() {
			defer wg.Done()
			for {
				i := int(atomic.AddInt64(&next, 1))
				if i >= n {
					return
				}
				results[i] = fn(input[i])
			}
		}()
	}

	wg.Wait()
	return results
}
