// Copyright (c) 2026 Dragnet Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

// Package lifecycle defines the start/stop contract shared by long-lived
// components such as stores and servers.
package lifecycle

import "context"

// Starter is a component that needs to be started before serving.
type Starter interface {
	Start(context.Context) error
}

// Stopper is a component that needs to be stopped when retired.
type Stopper interface {
	Stop(context.Context) error
}

// StartStopper combines Starter and Stopper.
type StartStopper interface {
	Starter
	Stopper
}

// Lifecycle manages a set of components with ordered start and reverse-ordered
// stop.
type Lifecycle struct {
	models []StartStopper
}

// Add adds a component into the lifecycle.
func (lc *Lifecycle) Add(m StartStopper) { lc.models = append(lc.models, m) }

// AddModels adds multiple components into the lifecycle.
func (lc *Lifecycle) AddModels(m ...StartStopper) { lc.models = append(lc.models, m...) }

// OnStart starts all components in the order they were added.
func (lc *Lifecycle) OnStart(ctx context.Context) error {
	for _, m := range lc.models {
		if err := m.Start(ctx); err != nil {
			return err
		}
	}
	return nil
}

// OnStop stops all components in the reverse order they were added.
func (lc *Lifecycle) OnStop(ctx context.Context) error {
	for i := len(lc.models) - 1; i >= 0; i-- {
		if err := lc.models[i].Stop(ctx); err != nil {
			return err
		}
	}
	return nil
}
