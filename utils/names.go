package utils

import (
	"math/rand"
	"sync"

	"github.com/Pallinder/go-randomdata"
)

var (
	namesLock sync.Mutex
	namesUsed map[string]struct{}
)

// RandomNodeName returns a silly but unique placeholder name for model
// nodes that come in without one. Seeded so reloads of the same model
// produce the same names.
func RandomNodeName() string {
	namesLock.Lock()
	defer namesLock.Unlock()
	if namesUsed == nil {
		namesUsed = make(map[string]struct{})
		randomdata.CustomRand(rand.New(rand.NewSource(0)))
	}
	for {
		name := randomdata.SillyName()
		if _, exists := namesUsed[name]; !exists {
			namesUsed[name] = struct{}{}
			return name
		}
	}
}
