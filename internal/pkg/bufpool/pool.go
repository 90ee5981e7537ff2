package bufpool

import "sync"

// ChunkSize bounds a single staging write so heartbeats stay frequent on slow storage.
const ChunkSize = 4 * 1024

var bufferPool = sync.Pool{
	New: func() any {
		val := make([]byte, ChunkSize)
		return &val
	},
}

func GetBuffer() *[]byte {
	return bufferPool.Get().(*[]byte)
}

func PutBuffer(b *[]byte) {
	bufferPool.Put(b)
}
