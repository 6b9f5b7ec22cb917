package codec

// markerCodec is a codec that classifies content without transforming it.
// Encoding routes through dag-json; the marker only tags the semantic
// content type.
type markerCodec struct {
	code Code
	name string
}

func (m markerCodec) Code() Code     { return m.code }
func (m markerCodec) Name() string   { return m.name }
func (m markerCodec) IsMarker() bool { return true }

func (markerCodec) Encode(v interface{}) ([]byte, error) {
	return dagJSONCodec{}.Encode(v)
}

func (markerCodec) Decode(data []byte, v interface{}) error {
	return dagJSONCodec{}.Decode(data, v)
}

// builtins returns the codec set a freshly constructed Registry preloads.
func builtins() []Codec {
	return []Codec{
		markerCodec{Raw, "raw"},
		markerCodec{JSON, "json"},
		markerCodec{CBOR, "cbor"},
		markerCodec{DagPB, "dag-pb"},
		dagCBORCodec{},
		dagJSONCodec{},

		markerCodec{Alchemist, "alchemist"},
		markerCodec{WorkflowGraph, "workflow-graph"},
		markerCodec{ContextGraph, "context-graph"},

		markerCodec{Events, "events"},
		markerCodec{Graphs, "graphs"},
		markerCodec{Nodes, "nodes"},
		markerCodec{Edges, "edges"},
		markerCodec{Documents, "documents"},
		markerCodec{Images, "images"},
		markerCodec{Audio, "audio"},
		markerCodec{Video, "video"},
	}
}
