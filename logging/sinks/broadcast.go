package sinks

import (
	"context"
	"encoding/json"
	"fmt"

	"schmoovin/motiongraph/logging"
)

// Broadcaster receives encoded events. The inspector hub implements it.
type Broadcaster interface {
	Broadcast(data []byte)
}

// Broadcast encodes each event as JSON and fans it out to a Broadcaster.
type Broadcast struct {
	target Broadcaster
}

func NewBroadcast(target Broadcaster) *Broadcast {
	return &Broadcast{target: target}
}

func (s *Broadcast) Write(event logging.Event) error {
	if s.target == nil {
		return nil
	}
	data, err := json.Marshal(wireEvent(event))
	if err != nil {
		return fmt.Errorf("broadcast: marshal %s: %w", event.Type, err)
	}
	s.target.Broadcast(data)
	return nil
}

func (s *Broadcast) Close(context.Context) error {
	return nil
}
