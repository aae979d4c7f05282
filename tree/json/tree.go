package json

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/pbanos/scion/tree"
)

type jsonControl struct {
	Alpha     float64  `json:"alpha"`
	MaxDepth  int      `json:"maxDepth"`
	MinBucket int      `json:"minBucket"`
	MinSplit  int      `json:"minSplit"`
	GenesUse  []string `json:"genesUse,omitempty"`
	MaxNodes  int      `json:"maxNodes,omitempty"`
}

/*
WriteJSONTree takes a context.Context, a pointer to a tree.Tree, a
NodeEncodeDecoder and an io.Writer and serializes the given tree as
JSON onto the io.Writer.
A tree is serialized as a JSON object with the following fields:
* "rootID": a string with the ID of the node at the root of the tree
* "label": a string with the name of the label the tree predicts
* "classes": the class values of the label in training order
* "genes": the gene columns the tree was grown over
* "control": the control the tree was grown with
* "nodes": an array containing the nodes that can be traversed on
the tree, in pre-order with left children before right ones,
serialized by the given NodeEncodeDecoder.
An error is returned if the tree cannot be traversed, serialized or
written onto the io.Writer.
*/
func WriteJSONTree(ctx context.Context, t *tree.Tree, ned NodeEncodeDecoder, w io.Writer) error {
	err := marshalJSONTreeHeader(ctx, t, w)
	if err != nil {
		return err
	}
	var i int
	err = t.Traverse(ctx, false, func(ctx context.Context, n *tree.Node) error {
		err := writeNode(ctx, i, n, ned, w)
		i++
		return err
	})
	if err != nil {
		return err
	}
	return marshalJSONTreeFooter(ctx, t, w)
}

/*
ReadJSONTree takes a context.Context, a pointer to a tree.Tree, a
NodeEncodeDecoder and an io.Reader and unmarshals the contents of
the io.Reader onto the given tree, storing every node on the tree's
NodeStore. The tree must be created with the NodeStore the nodes
should end up in; its other fields are filled from the JSON.
An error is returned if the JSON cannot be read from the io.Reader
or unmarshalled onto the tree.
*/
func ReadJSONTree(ctx context.Context, t *tree.Tree, ned NodeEncodeDecoder, r io.Reader) error {
	dec := json.NewDecoder(r)
	jt := &struct {
		RootID  string             `json:"rootID"`
		Label   string             `json:"label"`
		Classes []string           `json:"classes"`
		Genes   []string           `json:"genes"`
		Control *jsonControl       `json:"control"`
		Nodes   []*json.RawMessage `json:"nodes"`
	}{}
	err := dec.Decode(jt)
	if err != nil {
		return err
	}
	if jt.RootID == "" {
		return fmt.Errorf("no root node id available")
	}
	if jt.Label == "" {
		return fmt.Errorf("no label available")
	}
	t.RootID = jt.RootID
	t.Label = jt.Label
	t.Classes = jt.Classes
	t.Genes = jt.Genes
	if jt.Control != nil {
		t.Control = tree.Control{
			Alpha:     jt.Control.Alpha,
			MaxDepth:  jt.Control.MaxDepth,
			MinBucket: jt.Control.MinBucket,
			MinSplit:  jt.Control.MinSplit,
			GenesUse:  jt.Control.GenesUse,
			MaxNodes:  jt.Control.MaxNodes,
		}
	}
	for _, jn := range jt.Nodes {
		n, err := ned.Decode(*jn)
		if err != nil {
			return err
		}
		err = t.NodeStore.Store(ctx, n)
		if err != nil {
			return err
		}
	}
	return nil
}

func marshalJSONTreeHeader(ctx context.Context, t *tree.Tree, w io.Writer) error {
	header := &struct {
		RootID  string       `json:"rootID"`
		Label   string       `json:"label"`
		Classes []string     `json:"classes"`
		Genes   []string     `json:"genes"`
		Control *jsonControl `json:"control"`
	}{
		RootID:  t.RootID,
		Label:   t.Label,
		Classes: t.Classes,
		Genes:   t.Genes,
		Control: &jsonControl{
			Alpha:     t.Control.Alpha,
			MaxDepth:  t.Control.MaxDepth,
			MinBucket: t.Control.MinBucket,
			MinSplit:  t.Control.MinSplit,
			GenesUse:  t.Control.GenesUse,
			MaxNodes:  t.Control.MaxNodes,
		},
	}
	jh, err := json.Marshal(header)
	if err != nil {
		return err
	}
	// reopen the object so the node array can be streamed
	jh[len(jh)-1] = ','
	_, err = w.Write(jh)
	if err != nil {
		return err
	}
	_, err = w.Write([]byte(`"nodes":[`))
	return err
}

func writeNode(ctx context.Context, i int, n *tree.Node, ned NodeEncodeDecoder, w io.Writer) error {
	if i != 0 {
		_, err := w.Write([]byte(","))
		if err != nil {
			return err
		}
	}
	jn, err := ned.Encode(n)
	if err != nil {
		return err
	}
	_, err = w.Write(jn)
	return err
}

func marshalJSONTreeFooter(ctx context.Context, t *tree.Tree, w io.Writer) error {
	_, err := w.Write([]byte(`]}`))
	return err
}
