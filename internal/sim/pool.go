package sim

import "sync"

// envPool recycles the expression environments built once per degree of
// freedom during per-dof evaluation, which otherwise dominate allocation
// on large systems.
type envPool struct {
	pool sync.Pool
}

func newEnvPool() *envPool {
	return &envPool{
		pool: sync.Pool{
			New: func() any {
				return make(map[string]any)
			},
		},
	}
}

func (p *envPool) Get() map[string]any {
	return p.pool.Get().(map[string]any)
}

func (p *envPool) Put(env map[string]any) {
	for k := range env {
		delete(env, k)
	}
	p.pool.Put(env)
}
