package cluster

import (
	"fmt"
	"math"
	"os"
	"slices"

	"github.com/sierrasoftworks/humane-errors-go"
	"sigs.k8s.io/yaml"
)

// Topology maps each node id to the neighbors it relays to.
type Topology map[string][]string

// Generator builds a topology over ids.
type Generator func(ids []string) Topology

var generators = map[string]Generator{
	"line": Line,
	"ring": Ring,
	"grid": Grid,
	"tree": Tree,
	"full": Full,
}

// TopologyNames lists the built-in generators.
func TopologyNames() []string {
	names := make([]string, 0, len(generators))
	for name := range generators {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// NewTopology builds the named built-in topology.
func NewTopology(name string, ids []string) (Topology, humane.Error) {
	gen, ok := generators[name]
	if !ok {
		return nil, humane.Wrap(ErrUnknownTopology, fmt.Sprintf("no topology named %q", name))
	}
	return gen(ids), nil
}

// NodeIDs returns n0 through n{count-1}.
func NodeIDs(count int) []string {
	ids := make([]string, count)
	for i := range ids {
		ids[i] = fmt.Sprintf("n%d", i)
	}
	return ids
}

func empty(ids []string) Topology {
	topo := make(Topology, len(ids))
	for _, id := range ids {
		topo[id] = []string{}
	}
	return topo
}

func Line(ids []string) Topology {
	topo := empty(ids)
	for i, id := range ids {
		if i > 0 {
			topo[id] = append(topo[id], ids[i-1])
		}
		if i < len(ids)-1 {
			topo[id] = append(topo[id], ids[i+1])
		}
	}
	return topo
}

func Ring(ids []string) Topology {
	if len(ids) < 3 {
		return Line(ids)
	}

	topo := empty(ids)
	for i, id := range ids {
		topo[id] = append(topo[id],
			ids[(i+len(ids)-1)%len(ids)],
			ids[(i+1)%len(ids)],
		)
	}
	return topo
}

// Grid lays the nodes out row by row in a square-ish grid and links each to
// its horizontal and vertical neighbors.
func Grid(ids []string) Topology {
	topo := empty(ids)
	if len(ids) == 0 {
		return topo
	}

	width := int(math.Ceil(math.Sqrt(float64(len(ids)))))
	for i, id := range ids {
		row, col := i/width, i%width
		if row > 0 {
			topo[id] = append(topo[id], ids[i-width])
		}
		if col > 0 {
			topo[id] = append(topo[id], ids[i-1])
		}
		if col < width-1 && i+1 < len(ids) {
			topo[id] = append(topo[id], ids[i+1])
		}
		if i+width < len(ids) {
			topo[id] = append(topo[id], ids[i+width])
		}
	}
	return topo
}

// Tree is a binary tree in breadth first order; every node links to its parent
// and children.
func Tree(ids []string) Topology {
	topo := empty(ids)
	for i, id := range ids {
		if i > 0 {
			topo[id] = append(topo[id], ids[(i-1)/2])
		}
		for _, child := range []int{2*i + 1, 2*i + 2} {
			if child < len(ids) {
				topo[id] = append(topo[id], ids[child])
			}
		}
	}
	return topo
}

func Full(ids []string) Topology {
	topo := empty(ids)
	for _, id := range ids {
		for _, other := range ids {
			if other != id {
				topo[id] = append(topo[id], other)
			}
		}
	}
	return topo
}

// Validate checks that every id has an entry and that neighbors are known ids.
func (t Topology) Validate(ids []string) humane.Error {
	known := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		known[id] = struct{}{}
	}

	for _, id := range ids {
		neighbors, ok := t[id]
		if !ok {
			return humane.Wrap(ErrInvalidTopology, fmt.Sprintf("no entry for node %s", id))
		}
		for _, neighbor := range neighbors {
			if _, ok := known[neighbor]; !ok {
				return humane.Wrap(ErrInvalidTopology, fmt.Sprintf("node %s lists unknown neighbor %s", id, neighbor))
			}
		}
	}
	return nil
}

// Nodes returns the ids that have an entry, sorted.
func (t Topology) Nodes() []string {
	ids := make([]string, 0, len(t))
	for id := range t {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Reachable returns every id a flood starting at from reaches, following
// neighbor links in their stored direction.
func (t Topology) Reachable(from string) []string {
	seen := map[string]struct{}{from: {}}
	queue := []string{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range t[cur] {
			if _, ok := seen[next]; !ok {
				seen[next] = struct{}{}
				queue = append(queue, next)
			}
		}
	}

	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// Connected reports whether a flood from any node reaches every node.
func (t Topology) Connected() bool {
	for id := range t {
		if len(t.Reachable(id)) != len(t) {
			return false
		}
	}
	return true
}

// ParseTopology decodes a YAML or JSON document mapping node ids to neighbor lists.
func ParseTopology(data []byte) (Topology, humane.Error) {
	var topo Topology
	if err := yaml.Unmarshal(data, &topo); err != nil {
		return nil, humane.Wrap(err, "failed to parse topology", "the file must map node ids to lists of neighbor ids")
	}
	if len(topo) == 0 {
		return nil, humane.Wrap(ErrInvalidTopology, "topology file is empty")
	}
	for id, neighbors := range topo {
		if neighbors == nil {
			topo[id] = []string{}
		}
	}
	return topo, nil
}

// LoadTopology reads and parses a topology file.
func LoadTopology(path string) (Topology, humane.Error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, humane.Wrap(err, fmt.Sprintf("failed to read topology file %s", path), "check that the file exists and is readable")
	}
	return ParseTopology(data)
}
