// Package util contiene utilidades compartidas sin dependencias de dominio.
package util

import (
	"math/rand/v2"
	"sync"
)

// Rand es la fuente de aleatoriedad inyectable usada para variar respuestas.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewRand devuelve una fuente segura para uso concurrente con semilla fija.
func NewRand(seed uint64) Rand {
	return &lockedRand{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// NewRandomRand usa una semilla aleatoria del runtime.
func NewRandomRand() Rand {
	return NewRand(rand.Uint64())
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

func (l *lockedRand) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.IntN(n)
}

// Pick elige un elemento al azar; devuelve "" si la lista esta vacia.
func Pick(r Rand, options []string) string {
	if len(options) == 0 {
		return ""
	}
	if r == nil {
		return options[0]
	}
	return options[r.IntN(len(options))]
}
