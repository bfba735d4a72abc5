package engine

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// An Image is serialized as an ordered mapping from pile name to the pile's
// text notation. Decoding fails as a whole if any pile fails to decode.

var errDuplicatePile = errors.New("duplicate pile name")

// MarshalYAML implements yaml.Marshaler.
func (im Image) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, e := range im.entries {
		text, err := e.Cards.Encode()
		if err != nil {
			return nil, fmt.Errorf("pile %q: %w", e.Name, err)
		}
		value := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: text}
		if strings.Contains(text, "\n") {
			value.Style = yaml.LiteralStyle
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Name},
			value,
		)
	}
	return node, nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (im *Image) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode && value.Tag == "!!null" {
		*im = Image{}
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: image must be a mapping of pile names to cards", value.Line)
	}
	var out Image
	for i := 0; i+1 < len(value.Content); i += 2 {
		key, val := value.Content[i], value.Content[i+1]
		var text string
		if val.Tag != "!!null" {
			if err := val.Decode(&text); err != nil {
				return fmt.Errorf("pile %q: %w", key.Value, err)
			}
		}
		if out.index(key.Value) >= 0 {
			return fmt.Errorf("line %d: %w %q", key.Line, errDuplicatePile, key.Value)
		}
		pile, err := ParsePile(text)
		if err != nil {
			return fmt.Errorf("pile %q: %w", key.Value, err)
		}
		out.entries = append(out.entries, NamedPile{Name: key.Value, Cards: pile})
	}
	*im = out
	return nil
}

// MarshalJSON implements json.Marshaler, keeping pile order.
func (im Image) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range im.entries {
		text, err := e.Cards.Encode()
		if err != nil {
			return nil, fmt.Errorf("pile %q: %w", e.Name, err)
		}
		if i > 0 {
			buf.WriteByte(',')
		}
		k, _ := json.Marshal(e.Name)
		v, _ := json.Marshal(text)
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler, keeping pile order.
func (im *Image) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*im = Image{}
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("image must be a JSON object, got %v", tok)
	}
	var out Image
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		name := keyTok.(string)
		var text string
		if err := dec.Decode(&text); err != nil {
			return fmt.Errorf("pile %q: %w", name, err)
		}
		if out.index(name) >= 0 {
			return fmt.Errorf("%w %q", errDuplicatePile, name)
		}
		pile, err := ParsePile(text)
		if err != nil {
			return fmt.Errorf("pile %q: %w", name, err)
		}
		out.entries = append(out.entries, NamedPile{Name: name, Cards: pile})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*im = out
	return nil
}
