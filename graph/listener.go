package graph

// Listener observes structural changes to a Graph.
//
// Implementations must not call back into the Graph synchronously from a
// notification method while holding any lock of their own that a concurrent
// Graph call might also need; notifications are delivered outside the
// Graph's internal lock, but re-entrant Graph mutation from within a
// notification is still the listener's own responsibility to make safe.
type Listener interface {
	OnAddedNode(n Node)
	OnRemovedNode(n Node)
	OnAddedEdge(e *Edge)
	OnRemovedEdge(e *Edge)
}

// BaseListener implements [Listener] with no-op methods, so a caller that
// only cares about one kind of event can embed BaseListener and override
// only the methods it needs.
type BaseListener struct{}

func (BaseListener) OnAddedNode(Node)     {}
func (BaseListener) OnRemovedNode(Node)   {}
func (BaseListener) OnAddedEdge(*Edge)    {}
func (BaseListener) OnRemovedEdge(*Edge)  {}
