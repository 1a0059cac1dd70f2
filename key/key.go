// Package key turns author-chosen names into the integer keys used for
// every parameter and data lookup. Hash once at load time and keep the Key.
package key

import (
	"fmt"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// Key identifies a parameter or data entry within one graph.
type Key uint32

// None is never produced by Of and marks an unset key.
const None Key = 0

var (
	namesMu sync.RWMutex
	names   = make(map[Key]string)
)

// Of hashes name without recording it.
func Of(name string) Key {
	sum := xxhash.Sum64String(name)
	k := Key(uint32(sum) ^ uint32(sum>>32))
	if k == None {
		k = 1
	}
	return k
}

// Intern hashes name and remembers it so diagnostics can print the name
// instead of the number.
func Intern(name string) Key {
	k := Of(name)
	namesMu.Lock()
	if _, ok := names[k]; !ok {
		names[k] = name
	}
	namesMu.Unlock()
	return k
}

// Name returns the interned name for k, or a hex form when k was never
// interned.
func Name(k Key) string {
	namesMu.RLock()
	name, ok := names[k]
	namesMu.RUnlock()
	if ok {
		return name
	}
	return k.String()
}

func (k Key) String() string {
	return fmt.Sprintf("#%08x", uint32(k))
}

// Valid reports whether k was produced by Of.
func (k Key) Valid() bool {
	return k != None
}
