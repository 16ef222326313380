package parser

import (
	"context"

	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
	"github.com/paulmach/osm"
	"github.com/rotisserie/eris"
	"github.com/ttpr0/go-siting/geo"
	"github.com/ttpr0/go-siting/graph"
	. "github.com/ttpr0/go-siting/util"
	"golang.org/x/exp/slog"
)

// ParseRegion builds a road graph (in WGS84, edge lengths in meters) and the point
// features accepted by the decoder from osm data.
//
// Ways are split into edges at junctions, nodes used by one way only are folded
// into the edge length.
func ParseRegion(ctx context.Context, open ScannerFactory, decoder IOSMDecoder) (*graph.Graph, []geo.PointFeature, error) {
	ways := NewList[OSMWay](10000)
	osm_nodes := NewDict[int64, TempNode](10000)
	if err := _InitWayHandler(ctx, open, decoder, &ways, osm_nodes); err != nil {
		return nil, nil, err
	}
	scan_order := NewList[int64](osm_nodes.Length())
	features := NewList[geo.PointFeature](100)
	if err := _NodeHandler(ctx, open, decoder, osm_nodes, &scan_order, &features); err != nil {
		return nil, nil, err
	}
	_MarkBrokenWays(ways, osm_nodes)
	g := _CreateGraph(ways, osm_nodes, scan_order)
	slog.Debug("parsed region", "nodes", g.NodeCount(), "edges", g.EdgeCount(), "features", features.Length())
	return g, features, nil
}

//*******************************************
// osm handler methods
//*******************************************

func _InitWayHandler(ctx context.Context, open ScannerFactory, decoder IOSMDecoder, ways *List[OSMWay], osm_nodes Dict[int64, TempNode]) error {
	scanner, err := open(ctx)
	if err != nil {
		return err
	}
	defer scanner.Close()
	_SkipNodes(scanner)

	for scanner.Scan() {
		object, ok := scanner.Object().(*osm.Way)
		if !ok {
			continue
		}
		tags := Dict[string, string](object.TagMap())
		if !decoder.IsValidHighway(tags) {
			continue
		}
		l := len(object.Nodes)
		if l < 2 {
			continue
		}
		refs := make([]int64, l)
		for i, nd := range object.Nodes {
			ref := int64(nd.ID)
			refs[i] = ref
			node := osm_nodes[ref]
			node.Count += 1
			osm_nodes[ref] = node
		}
		// way endpoints always become graph nodes
		for _, ref := range [2]int64{refs[0], refs[l-1]} {
			node := osm_nodes[ref]
			node.Count += 1
			osm_nodes[ref] = node
		}
		ways.Add(OSMWay{Nodes: refs, Attr: decoder.DecodeEdge(tags)})
	}
	if err := scanner.Err(); err != nil {
		return eris.Wrap(err, "parser: scan ways")
	}
	return nil
}

func _NodeHandler(ctx context.Context, open ScannerFactory, decoder IOSMDecoder, osm_nodes Dict[int64, TempNode], scan_order *List[int64], features *List[geo.PointFeature]) error {
	scanner, err := open(ctx)
	if err != nil {
		return err
	}
	defer scanner.Close()
	_SkipWays(scanner)

	for scanner.Scan() {
		object, ok := scanner.Object().(*osm.Node)
		if !ok {
			continue
		}
		point := orb.Point{object.Lon, object.Lat}
		if len(object.Tags) > 0 {
			tags := Dict[string, string](object.TagMap())
			if category, ok := decoder.DecodeFeature(tags); ok {
				feature := geo.NewPointFeature(point, geo.WGS84, category)
				feature.Name = tags.Get("name")
				features.Add(feature)
			}
		}
		id := int64(object.ID)
		on, ok := osm_nodes[id]
		if !ok || on.Found {
			continue
		}
		on.Point = point
		on.Found = true
		osm_nodes[id] = on
		scan_order.Add(id)
	}
	if err := scanner.Err(); err != nil {
		return eris.Wrap(err, "parser: scan nodes")
	}
	return nil
}

// Extracts clipped at the region border reference nodes they do not contain,
// the nodes next to such gaps are turned into graph nodes.
func _MarkBrokenWays(ways List[OSMWay], osm_nodes Dict[int64, TempNode]) {
	for _, way := range ways {
		l := len(way.Nodes)
		for i, ref := range way.Nodes {
			on := osm_nodes[ref]
			if !on.Found || on.Count > 1 {
				continue
			}
			prev_missing := i > 0 && !osm_nodes[way.Nodes[i-1]].Found
			next_missing := i < l-1 && !osm_nodes[way.Nodes[i+1]].Found
			if prev_missing || next_missing {
				on.Count = 2
				osm_nodes[ref] = on
			}
		}
	}
}

func _CreateGraph(ways List[OSMWay], osm_nodes Dict[int64, TempNode], scan_order List[int64]) *graph.Graph {
	builder := graph.NewGraphBuilder(geo.WGS84, scan_order.Length())
	index_mapping := NewDict[int64, int32](scan_order.Length())
	for _, ref := range scan_order {
		on := osm_nodes[ref]
		if on.Count > 1 {
			index_mapping[ref] = builder.AddNode(on.Point)
		}
	}

	for _, way := range ways {
		start := int32(-1)
		length := 0.0
		var prev orb.Point
		for _, ref := range way.Nodes {
			on := osm_nodes[ref]
			if !on.Found {
				start = -1
				continue
			}
			if start == -1 {
				start = index_mapping[ref]
				prev = on.Point
				length = 0
				continue
			}
			length += orbgeo.Distance(prev, on.Point)
			prev = on.Point
			if on.Count <= 1 {
				continue
			}
			end := index_mapping[ref]
			// ids come from the builder and lengths are non-negative, so adding cannot fail
			switch way.Attr.Oneway {
			case FORWARD_ONLY:
				builder.AddEdge(start, end, length)
			case BACKWARD_ONLY:
				builder.AddEdge(end, start, length)
			default:
				builder.AddUndirectedEdge(start, end, length)
			}
			start = end
			length = 0
		}
	}
	return builder.Build()
}
