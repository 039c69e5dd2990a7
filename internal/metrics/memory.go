package metrics

import "runtime"

// RuntimeSnapshot holds a point-in-time reading of process health, reported
// by the server's health endpoint.
type RuntimeSnapshot struct {
	HeapAlloc  uint64 `json:"heap_alloc_bytes"`
	Sys        uint64 `json:"sys_bytes"`
	NumGC      uint32 `json:"num_gc"`
	Goroutines int    `json:"goroutines"`
}

// TakeRuntimeSnapshot reads current runtime statistics.
func TakeRuntimeSnapshot() RuntimeSnapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return RuntimeSnapshot{
		HeapAlloc:  m.HeapAlloc,
		Sys:        m.Sys,
		NumGC:      m.NumGC,
		Goroutines: runtime.NumGoroutine(),
	}
}
