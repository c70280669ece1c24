package state

// ConnectorEndpoints resolves a connector's line from the live collection
// by endpoint id. Moving either endpoint re-routes the connector with no
// bookkeeping; a missing endpoint makes it a no-render until the
// reference resolves again, e.g. on undo.
func ConnectorEndpoints(objs []Object, c Object) (x1, y1, x2, y2 float32, ok bool) {
	if c.Type != TypeConnector {
		return 0, 0, 0, 0, false
	}
	var start, end *Object
	for i := range objs {
		switch objs[i].ID {
		case c.Data.StartID:
			start = &objs[i]
		case c.Data.EndID:
			end = &objs[i]
		}
	}
	if start == nil || end == nil {
		return 0, 0, 0, 0, false
	}
	// Box centers; the center is invariant under rotation about itself.
	x1, y1 = start.Bounds().Center()
	x2, y2 = end.Bounds().Center()
	return x1, y1, x2, y2, true
}

// ResolveConnector is ConnectorEndpoints against the store's current
// collection.
func (s *Store) ResolveConnector(c Object) (x1, y1, x2, y2 float32, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ConnectorEndpoints(s.objects, c)
}
