/*
Package panel reads marker-panel definitions from YAML. A panel
names the label to predict, the gene columns to consider as split
candidates and, optionally, the classes expected in the label, in
the order predictions should break ties:

	label: celltype
	genes:
	  - CD3E
	  - CD19
	  - NKG7
	classes:
	  - tcell
	  - bcell
	  - nk
*/
package panel

import (
	"fmt"
	"io"
	"io/ioutil"
	"os"

	yaml "gopkg.in/yaml.v2"
)

/*
Panel describes what a tree should predict and from which genes.
An empty Genes slice means every gene column of the training matrix
is a candidate. An empty Classes slice means the class order is
taken from the training labels in first-occurrence order.
*/
type Panel struct {
	Label   string   `yaml:"label"`
	Genes   []string `yaml:"genes,omitempty"`
	Classes []string `yaml:"classes,omitempty"`
}

/*
ReadPanel reads a YAML panel definition from the given reader. It
returns an error if the YAML cannot be parsed, the label is missing
or a gene or class is repeated.
*/
func ReadPanel(r io.Reader) (*Panel, error) {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading panel: %v", err)
	}
	p := &Panel{}
	err = yaml.Unmarshal(data, p)
	if err != nil {
		return nil, fmt.Errorf("parsing panel: %v", err)
	}
	err = p.validate()
	if err != nil {
		return nil, err
	}
	return p, nil
}

/*
ReadPanelFromFilePath reads a YAML panel definition from the file at
the given path.
*/
func ReadPanelFromFilePath(filepath string) (*Panel, error) {
	f, err := os.Open(filepath)
	if err != nil {
		return nil, fmt.Errorf("opening panel at %s: %v", filepath, err)
	}
	defer f.Close()
	p, err := ReadPanel(f)
	if err != nil {
		return nil, fmt.Errorf("reading panel at %s: %v", filepath, err)
	}
	return p, nil
}

// Write serializes the panel as YAML onto the given writer.
func (p *Panel) Write(w io.Writer) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("serializing panel: %v", err)
	}
	_, err = w.Write(data)
	if err != nil {
		return fmt.Errorf("writing panel: %v", err)
	}
	return nil
}

func (p *Panel) validate() error {
	if p.Label == "" {
		return fmt.Errorf("invalid panel: missing label")
	}
	seen := make(map[string]bool)
	for _, g := range p.Genes {
		if seen[g] {
			return fmt.Errorf("invalid panel: gene %s is repeated", g)
		}
		seen[g] = true
	}
	seen = make(map[string]bool)
	for _, c := range p.Classes {
		if seen[c] {
			return fmt.Errorf("invalid panel: class %s is repeated", c)
		}
		seen[c] = true
	}
	return nil
}
