package cluster

// NodeDisplayData is one row of a simulation report.
type NodeDisplayData struct {
	ID        string
	Neighbors int
	Accepted  int
	Missing   int
	Complete  bool
}

// DisplayData summarizes every node in id order.
func (n *Network) DisplayData() []NodeDisplayData {
	missing := n.Missing()

	out := make([]NodeDisplayData, 0, len(n.ids))
	for _, id := range n.ids {
		state := n.states[id]
		out = append(out, NodeDisplayData{
			ID:        id,
			Neighbors: len(state.Roster()),
			Accepted:  state.Len(),
			Missing:   len(missing[id]),
			Complete:  len(missing[id]) == 0,
		})
	}
	return out
}
