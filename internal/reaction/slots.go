package reaction

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Slots is an ordered mapping from slot name to apparatus. It encodes as a
// JSON object or YAML mapping and keeps the key order of the source document.
type Slots []Slot

// Get returns the apparatus for a slot name.
func (s Slots) Get(name string) (Apparatus, bool) {
	for _, sl := range s {
		if sl.Name == name {
			return sl.Apparatus, true
		}
	}
	return Apparatus{}, false
}

// Set replaces the apparatus of an existing slot or appends a new one.
func (s *Slots) Set(name string, a Apparatus) {
	for i := range *s {
		if (*s)[i].Name == name {
			(*s)[i].Apparatus = a
			return
		}
	}
	*s = append(*s, Slot{Name: name, Apparatus: a})
}

// Names returns slot names in order.
func (s Slots) Names() []string {
	names := make([]string, len(s))
	for i, sl := range s {
		names[i] = sl.Name
	}
	return names
}

func (s Slots) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, sl := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(sl.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(sl.Apparatus)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (s *Slots) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*s = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("reaction: slots must be an object, got %v", tok)
	}
	out := Slots{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("reaction: slot name must be a string, got %v", tok)
		}
		var a Apparatus
		if err := dec.Decode(&a); err != nil {
			return fmt.Errorf("reaction: slot %q: %w", name, err)
		}
		out.Set(name, a)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*s = out
	return nil
}

func (s Slots) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, sl := range s {
		var val yaml.Node
		if err := val.Encode(sl.Apparatus); err != nil {
			return nil, err
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: sl.Name},
			&val,
		)
	}
	return node, nil
}

func (s *Slots) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("reaction: slots must be a mapping (line %d)", value.Line)
	}
	out := Slots{}
	for i := 0; i+1 < len(value.Content); i += 2 {
		name := value.Content[i].Value
		var a Apparatus
		if err := value.Content[i+1].Decode(&a); err != nil {
			return fmt.Errorf("reaction: slot %q: %w", name, err)
		}
		out.Set(name, a)
	}
	*s = out
	return nil
}
