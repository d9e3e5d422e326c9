package mempool

import (
	"sync"
)

// Sized pools for []bool and []int scratch buffers used by the pixel-level
// stages (binary masks, label maps) to reduce allocations on hot paths.

var (
	boolPools sync.Map // key: size class (int), value: *sync.Pool
	intPools  sync.Map // key: size class (int), value: *sync.Pool
)

// sizeClass rounds n up to the next multiple of 1024 to reduce churn.
func sizeClass(n int) int {
	if n <= 1024 {
		return 1024
	}
	const step = 1024
	r := (n + step - 1) / step
	return r * step
}

// GetBool retrieves a zeroed []bool buffer of length n from the pool.
// The caller must return it via PutBool when done.
func GetBool(n int) []bool {
	cls := sizeClass(n)
	pAny, _ := boolPools.LoadOrStore(cls, &sync.Pool{New: func() any { return make([]bool, cls) }})
	p, ok := pAny.(*sync.Pool)
	if !ok {
		return make([]bool, n)
	}
	buf, ok := p.Get().([]bool)
	if !ok || cap(buf) < cls {
		buf = make([]bool, cls)
	} else {
		buf = buf[:cap(buf)]
	}
	for i := range buf[:n] {
		buf[i] = false
	}
	return buf[:n]
}

// PutBool returns a buffer to the pool. It is safe to pass a nil slice.
func PutBool(buf []bool) {
	if buf == nil {
		return
	}
	cls := sizeClass(cap(buf))
	pAny, _ := boolPools.LoadOrStore(cls, &sync.Pool{New: func() any { return make([]bool, cls) }})
	if p, ok := pAny.(*sync.Pool); ok {
		p.Put(buf[:cap(buf)]) //nolint:staticcheck
	}
}

// GetInt retrieves a zeroed []int buffer of length n from the pool.
// The caller must return it via PutInt when done.
func GetInt(n int) []int {
	cls := sizeClass(n)
	pAny, _ := intPools.LoadOrStore(cls, &sync.Pool{New: func() any { return make([]int, cls) }})
	p, ok := pAny.(*sync.Pool)
	if !ok {
		return make([]int, n)
	}
	buf, ok := p.Get().([]int)
	if !ok || cap(buf) < cls {
		buf = make([]int, cls)
	} else {
		buf = buf[:cap(buf)]
	}
	for i := range buf[:n] {
		buf[i] = 0
	}
	return buf[:n]
}

// PutInt returns a buffer to the pool. It is safe to pass a nil slice.
func PutInt(buf []int) {
	if buf == nil {
		return
	}
	cls := sizeClass(cap(buf))
	pAny, _ := intPools.LoadOrStore(cls, &sync.Pool{New: func() any { return make([]int, cls) }})
	if p, ok := pAny.(*sync.Pool); ok {
		p.Put(buf[:cap(buf)]) //nolint:staticcheck
	}
}
