package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Question is a follow-up question shown after an emotion is picked.
type Question struct {
	Question string  `json:"question" yaml:"question"`
	Options  Options `json:"options" yaml:"options"`
}

// Option is one answer label and the weight recorded for it
type Option struct {
	Label  string
	Weight int
}

// Options keeps answer labels in the order they were declared.
// It encodes as a JSON object whose keys follow that order.
type Options []Option

// Weight returns the weight recorded for label
func (o Options) Weight(label string) (int, bool) {
	for _, opt := range o {
		if opt.Label == label {
			return opt.Weight, true
		}
	}
	return 0, false
}

// Labels returns the answer labels in declared order
func (o Options) Labels() []string {
	labels := make([]string, len(o))
	for i, opt := range o {
		labels[i] = opt.Label
	}
	return labels
}

func (o Options) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, opt := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(opt.Label)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(opt.Weight))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (o *Options) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("options must be an object")
	}

	var opts Options
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		label, _ := tok.(string)
		var weight int
		if err := dec.Decode(&weight); err != nil {
			return fmt.Errorf("option %q: %w", label, err)
		}
		opts = append(opts, Option{Label: label, Weight: weight})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*o = opts
	return nil
}

func (o *Options) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: options must be a mapping", node.Line)
	}

	opts := make(Options, 0, len(node.Content)/2)
	seen := make(map[string]bool, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var label string
		if err := node.Content[i].Decode(&label); err != nil {
			return err
		}
		if seen[label] {
			return fmt.Errorf("line %d: duplicate option %q", node.Content[i].Line, label)
		}
		seen[label] = true

		var weight int
		if err := node.Content[i+1].Decode(&weight); err != nil {
			return fmt.Errorf("option %q: %w", label, err)
		}
		opts = append(opts, Option{Label: label, Weight: weight})
	}
	*o = opts
	return nil
}

// Clone returns a deep copy so callers cannot mutate catalogue data
func (q Question) Clone() Question {
	opts := make(Options, len(q.Options))
	copy(opts, q.Options)
	return Question{Question: q.Question, Options: opts}
}
