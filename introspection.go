package notesstorage

import (
	"github.com/aretw0/introspection"
)

// ServiceState exposes internal state for observability.
type ServiceState struct {
	Adapter         string `json:"adapter"`
	EventBufferSize int    `json:"event_buffer_size"`
	Subscribers     int    `json:"subscribers"`
}

// State implements introspection.Introspectable.
func (s *Service) State() any {
	return ServiceState{
		Adapter:         s.adapter,
		EventBufferSize: s.eventBuffer,
		Subscribers:     s.broker.Subscribers(),
	}
}

// ComponentType implements introspection.Component.
func (s *Service) ComponentType() string {
	return "service"
}

var _ introspection.Introspectable = (*Service)(nil)
var _ introspection.Component = (*Service)(nil)
