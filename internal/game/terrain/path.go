package terrain

import (
	"container/heap"

	"github.com/tactica/tactica-core/internal/game/board"
)

// step order for neighbor expansion: N, E, S, W.
var steps = []board.Cell{{X: 0, Y: -1}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: -1, Y: 0}}

type routeState struct {
	cell    board.Cell
	bridges int
}

type routeNode struct {
	state routeState
	cost  int
	seq   int
	index int
}

// openList is a min-heap on cost, ties broken by insertion order.
type openList []*routeNode

func (ol openList) Len() int { return len(ol) }
func (ol openList) Less(i, j int) bool {
	if ol[i].cost != ol[j].cost {
		return ol[i].cost < ol[j].cost
	}
	return ol[i].seq < ol[j].seq
}
func (ol openList) Swap(i, j int) { ol[i], ol[j] = ol[j], ol[i]; ol[i].index = i; ol[j].index = j }
func (ol *openList) Push(x any)   { n := x.(*routeNode); n.index = len(*ol); *ol = append(*ol, n) }
func (ol *openList) Pop() any {
	old := *ol
	n := old[len(old)-1]
	old[len(old)-1] = nil
	*ol = old[:len(old)-1]
	return n
}

// router lays roads one at a time so later roads can reuse earlier ones.
type router struct {
	width, height int
	penalties     Penalties
	maxBridges    int // -1 means unlimited
	river         map[board.Cell]bool
	road          *cellSet
	bridges       []board.Cell
}

func newRouter(req Request, river map[board.Cell]bool) *router {
	limit := -1
	if req.MaxBridges != nil {
		limit = *req.MaxBridges
	}
	return &router{
		width:      req.Width,
		height:     req.Height,
		penalties:  req.Penalties,
		maxBridges: limit,
		river:      river,
		road:       newCellSet(),
	}
}

func (r *router) bridgesLeft() int {
	if r.maxBridges < 0 {
		return -1
	}
	return r.maxBridges - len(r.bridges)
}

// needsBridge reports whether laying road on c would build a new bridge.
func (r *router) needsBridge(c board.Cell) bool {
	return r.river[c] && !r.road.has[c]
}

// stepCost prices entering c. ok is false when c cannot be entered.
func (r *router) stepCost(c board.Cell, bridgesUsed int) (cost, bridges int, ok bool) {
	if r.road.has[c] {
		return r.penalties.ExistingRoad, bridgesUsed, true
	}
	cost = r.penalties.NewRoad
	if r.needsBridge(c) {
		left := r.bridgesLeft()
		if left >= 0 && bridgesUsed >= left {
			return 0, bridgesUsed, false
		}
		cost += r.penalties.Bridge
		if left >= 0 {
			bridgesUsed++
		}
	}
	return cost, bridgesUsed, true
}

// connect routes the cheapest road between from and to and records it.
// It returns false when no route exists under the bridge cap.
func (r *router) connect(from, to board.Cell) bool {
	path := r.shortestPath(from, to)
	if path == nil {
		return false
	}
	for _, c := range path {
		if r.needsBridge(c) {
			r.bridges = append(r.bridges, c)
		}
		r.road.add(c)
	}
	return true
}

// shortestPath is Dijkstra over (cell, bridges spent) so the bridge cap is
// respected along the whole route.
func (r *router) shortestPath(from, to board.Cell) []board.Cell {
	startCost, startBridges, ok := r.stepCost(from, 0)
	if !ok {
		return nil
	}
	start := routeState{cell: from, bridges: startBridges}
	best := map[routeState]int{start: startCost}
	parent := map[routeState]routeState{}

	ol := &openList{}
	heap.Init(ol)
	seq := 0
	heap.Push(ol, &routeNode{state: start, cost: startCost, seq: seq})

	for ol.Len() > 0 {
		cur := heap.Pop(ol).(*routeNode)
		if cur.cost > best[cur.state] {
			continue
		}
		if cur.state.cell == to {
			return rebuild(parent, start, cur.state)
		}
		for _, d := range steps {
			next := board.Cell{X: cur.state.cell.X + d.X, Y: cur.state.cell.Y + d.Y}
			if !board.InBounds(next, r.width, r.height) {
				continue
			}
			cost, bridges, ok := r.stepCost(next, cur.state.bridges)
			if !ok {
				continue
			}
			ns := routeState{cell: next, bridges: bridges}
			total := cur.cost + cost
			if prev, seen := best[ns]; seen && prev <= total {
				continue
			}
			best[ns] = total
			parent[ns] = cur.state
			seq++
			heap.Push(ol, &routeNode{state: ns, cost: total, seq: seq})
		}
	}
	return nil
}

func rebuild(parent map[routeState]routeState, start, end routeState) []board.Cell {
	var path []board.Cell
	for s := end; ; s = parent[s] {
		path = append(path, s.cell)
		if s == start {
			break
		}
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
