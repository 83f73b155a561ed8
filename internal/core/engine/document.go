package engine

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// RuleDocument is the parsed rules file for one repository. It is loaded
// once per delivery and read-only afterwards; all mutation during a run
// happens in the Context.
type RuleDocument struct {
	Revision      int
	SchemaVersion int
	OwnerAlias    string

	// Config is the free-form config section of the document.
	Config map[string]string

	// events maps an event-type name to its action mapping node.
	events map[string]*yaml.Node
}

// LoadDocument parses a rules file. Top-level scalars (revision,
// schema-version, owner-ms-alias) and the config mapping are decoded;
// every other top-level key is an event-type whose value must be a mapping
// of event-action names. A schema version below minSchema refuses to load.
func LoadDocument(data []byte, minSchema int) (*RuleDocument, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, fmt.Errorf("%w: empty rules document", ErrConfiguration)
	}
	top := root.Content[0]
	if top.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: rules document root must be a mapping, got %s", ErrConfiguration, kindName(top))
	}

	doc := &RuleDocument{
		Config: make(map[string]string),
		events: make(map[string]*yaml.Node),
	}

	for i := 0; i+1 < len(top.Content); i += 2 {
		key, value := top.Content[i], top.Content[i+1]
		switch key.Value {
		case "revision":
			n, err := scalarInt(value)
			if err != nil {
				return nil, fmt.Errorf("%w: revision: %v", ErrConfiguration, err)
			}
			doc.Revision = n
		case "schema-version":
			n, err := scalarInt(value)
			if err != nil {
				return nil, fmt.Errorf("%w: schema-version: %v", ErrConfiguration, err)
			}
			doc.SchemaVersion = n
		case "owner-ms-alias":
			alias, err := ScalarParam(value)
			if err != nil {
				return nil, err
			}
			doc.OwnerAlias = alias
		case "config":
			cfg, err := MappingParam(value)
			if err != nil {
				return nil, fmt.Errorf("%w: config section: %v", ErrConfiguration, err)
			}
			doc.Config = cfg
		default:
			if value.Kind != yaml.MappingNode {
				return nil, fmt.Errorf("%w: event type %q must map to an action mapping, got %s", ErrConfiguration, key.Value, kindName(value))
			}
			doc.events[key.Value] = value
		}
	}

	if doc.SchemaVersion < minSchema {
		return nil, fmt.Errorf("%w: schema-version %d is below the supported minimum %d", ErrConfiguration, doc.SchemaVersion, minSchema)
	}
	return doc, nil
}

// EventTypes returns the event-type names the document handles.
func (d *RuleDocument) EventTypes() []string {
	types := make([]string, 0, len(d.events))
	for name := range d.events {
		types = append(types, name)
	}
	return types
}

// actions returns the action mapping node for an event type, or nil.
func (d *RuleDocument) actions(eventType string) *yaml.Node {
	return d.events[eventType]
}

// findKey looks up a key in a mapping node and returns its value node.
func findKey(mapping *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1]
		}
	}
	return nil
}

func scalarInt(node *yaml.Node) (int, error) {
	s, err := ScalarParam(node)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("expected an integer, got %q", s)
	}
	return n, nil
}
