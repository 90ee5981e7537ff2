package config

import (
	"log"
	"sync"

	"github.com/google/go-cmp/cmp"
)

type KeyListener struct {
	Key      string
	Listener func(any)
}

var (
	listeners []KeyListener
	lastSeen  = make(map[string]any)
	updateMu  sync.Mutex
)

// RegisterKeyListener use in init method don't dynamic update
func RegisterKeyListener(l KeyListener) {
	listeners = append(listeners, l)
}

func snapshotListenedKeys() {
	updateMu.Lock()
	defer updateMu.Unlock()
	for _, l := range listeners {
		lastSeen[l.Key] = vp.Get(l.Key)
	}
}

// triggerUpdate runs after viper has re-read the file, it swaps GConfig and notifies listeners of changed keys.
func triggerUpdate() {
	updateMu.Lock()
	defer updateMu.Unlock()

	var c = new(Config)
	if err := vp.Unmarshal(c); err != nil {
		log.Printf("failed to dynamic update config file, %v\n", err)
		return
	}
	normalize(c)
	GConfig = c

	for _, l := range listeners {
		val := vp.Get(l.Key)
		if cmp.Equal(val, lastSeen[l.Key]) {
			continue
		}
		lastSeen[l.Key] = val
		if l.Listener != nil {
			l.Listener(val)
		}
	}
}
