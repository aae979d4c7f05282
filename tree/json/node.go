/*
Package json serializes trees and nodes as JSON, in a streaming
style that never needs the whole tree in memory at once: nodes are
written one at a time as they are traversed.
*/
package json

import (
	"encoding/json"

	"github.com/pbanos/scion/tree"
)

/*
NodeEncodeDecoder is an interface for objects that allow encoding
nodes into slices of bytes and decoding them back to nodes.
*/
type NodeEncodeDecoder interface {
	// Encode receives a *tree.Node and returns a slice of bytes
	// with the node encoded or an error if the encoding could not
	// be performed for some reason.
	Encode(*tree.Node) ([]byte, error)
	// Decode receives a slice of bytes and returns a *tree.Node
	// decoded from it or an error if the decoding could not be
	// performed for some reason.
	Decode([]byte) (*tree.Node, error)
}

type nodeEncodeDecoder struct{}

type node struct {
	ID        string           `json:"id"`
	ParentID  string           `json:"pId,omitempty"`
	LeftID    string           `json:"lId,omitempty"`
	RightID   string           `json:"rId,omitempty"`
	Gene      string           `json:"gene,omitempty"`
	Threshold float64          `json:"t,omitempty"`
	Statistic float64          `json:"stat,omitempty"`
	PValue    float64          `json:"p,omitempty"`
	Size      int              `json:"size,omitempty"`
	Depth     int              `json:"depth,omitempty"`
	Predicted *json.RawMessage `json:"pred,omitempty"`
}

type jsonPrediction struct {
	Counts map[string]int `json:"counts,omitempty"`
	Weight int            `json:"w,omitempty"`
}

/*
NewNodeEncodeDecoder returns a NodeEncodeDecoder for the JSON node
format used by WriteJSONTree and the redis node store.
*/
func NewNodeEncodeDecoder() NodeEncodeDecoder {
	return &nodeEncodeDecoder{}
}

func (ned *nodeEncodeDecoder) Encode(n *tree.Node) ([]byte, error) {
	jn := &node{
		ID:        n.ID,
		ParentID:  n.ParentID,
		LeftID:    n.LeftID,
		RightID:   n.RightID,
		Gene:      n.Gene,
		Threshold: n.Threshold,
		Statistic: n.Statistic,
		PValue:    n.PValue,
		Size:      n.Size,
		Depth:     n.Depth,
	}
	if n.Prediction != nil {
		p, err := json.Marshal(&jsonPrediction{Counts: n.Prediction.Counts(), Weight: n.Prediction.Weight()})
		if err != nil {
			return nil, err
		}
		rp := json.RawMessage(p)
		jn.Predicted = &rp
	}
	return json.Marshal(jn)
}

func (ned *nodeEncodeDecoder) Decode(data []byte) (*tree.Node, error) {
	jn := &node{}
	err := json.Unmarshal(data, jn)
	if err != nil {
		return nil, err
	}
	n := &tree.Node{
		ID:        jn.ID,
		ParentID:  jn.ParentID,
		LeftID:    jn.LeftID,
		RightID:   jn.RightID,
		Gene:      jn.Gene,
		Threshold: jn.Threshold,
		Statistic: jn.Statistic,
		PValue:    jn.PValue,
		Size:      jn.Size,
		Depth:     jn.Depth,
	}
	if jn.Predicted != nil {
		n.Prediction, err = UnmarshalJSONPrediction(*jn.Predicted)
		if err != nil {
			return nil, err
		}
	}
	return n, nil
}

/*
UnmarshalJSONPrediction takes a slice of bytes and returns a pointer
to a new tree.Prediction with the data from the slice unmarshalled
into it or an error. The slice of bytes is expected to contain a
JSON object with the following fields:
* "counts": a JSON object with string keys (classes) and integer
values (training rows of that class)
* "w": a number (integer) with the total number of training rows
behind the prediction.
*/
func UnmarshalJSONPrediction(b []byte) (*tree.Prediction, error) {
	jp := &jsonPrediction{}
	err := json.Unmarshal(b, jp)
	if err != nil {
		return nil, err
	}
	return tree.NewPrediction(jp.Counts)
}
