// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package p2p

import (
	"fmt"
	"sync"

	"github.com/dblokhin/p2pool/pack"
)

// Handler is invoked with the decoded body of an incoming message. body is
// whatever the registered Descriptor's Read produced (typically a
// *pack.Record). Handler invocation is skipped once the connection has
// entered a disconnecting state.
type Handler func(c *Conn, body interface{})

// Registry maps command names to the descriptor used to decode/encode their
// body and the handler invoked on receipt. A Registry is safe for
// concurrent registration and lookup, and is typically shared by every Conn
// speaking the same protocol.
type Registry struct {
	mu          sync.RWMutex
	descriptors map[string]pack.Descriptor
	handlers    map[string]Handler
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		descriptors: make(map[string]pack.Descriptor),
		handlers:    make(map[string]Handler),
	}
}

// Register binds command to desc and h. It returns ErrCommandTooLong if
// command doesn't fit the 12-byte command field.
func (r *Registry) Register(command string, desc pack.Descriptor, h Handler) error {
	if len(command) >= 12 {
		return fmt.Errorf("%w: %q", ErrCommandTooLong, command)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.descriptors[command] = desc
	r.handlers[command] = h
	return nil
}

func (r *Registry) descriptor(command string) (pack.Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.descriptors[command]
	return d, ok
}

func (r *Registry) handler(command string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[command]
	return h, ok
}
