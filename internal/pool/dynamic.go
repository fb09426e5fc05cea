package pool

import "sync"

// dynamicPool is a pool of workers. It is a wrapper around sync.Pool.
type dynamicPool struct {
	p *sync.Pool
}

// NewDynamic is a dynamic-size pool of workers; it grows on demand and never
// blocks. TryGet always succeeds for a dynamic pool since Get itself never
// blocks.
func NewDynamic(newFn func() interface{}) Pool {
	return &dynamicPool{p: &sync.Pool{New: newFn}}
}

func (d *dynamicPool) Get() interface{} { return d.p.Get() }

func (d *dynamicPool) TryGet() (interface{}, bool) { return d.p.Get(), true }

func (d *dynamicPool) Put(el interface{}) { d.p.Put(el) }
