// Package concurrency implements a simple channel based resource manager
// for concurrent element-wise share operations.
package concurrency

import (
	"sync"
)

// ResourceManager stores a channel of some given resource (e.g. a
// per-worker scratch buffer) meant to be used concurrently, and a
// channel for errors. Once an error occurred, subsequently submitted
// tasks are skipped.
type ResourceManager[T any] struct {
	sync.WaitGroup
	Resources chan T
	Errors    chan error
}

// NewResourceManager instantiates a new [ResourceManager] over the given
// resources.
func NewResourceManager[T any](resources []T) *ResourceManager[T] {
	ch := make(chan T, len(resources))
	for i := range resources {
		ch <- resources[i]
	}
	return &ResourceManager[T]{
		Resources: ch,
		Errors:    make(chan error, len(resources)),
	}
}

// Task is a function consuming a resource that can be used concurrently.
type Task[T any] func(resource T) (err error)

// Run runs a [Task] concurrently. If the internal error channel is not
// empty, does nothing. Any error returned by the task is recorded.
func (r *ResourceManager[T]) Run(f Task[T]) {
	r.Add(1)
	go func() {
		defer r.Done()
		if len(r.Errors) != 0 {
			return
		}
		resource := <-r.Resources
		if err := f(resource); err != nil {
			if len(r.Errors) < cap(r.Errors) {
				r.Errors <- err
			}
		}
		r.Resources <- resource
	}()
}

// Wait waits until all submitted tasks have finished and returns the
// first encountered error, if any.
func (r *ResourceManager[T]) Wait() (err error) {
	r.WaitGroup.Wait()
	if len(r.Errors) != 0 {
		return <-r.Errors
	}
	return
}
