package graph

import (
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertValue_Node(t *testing.T) {
	node := neo4j.Node{
		Labels: []string{"Person"},
		Props:  map[string]any{"name": "Alice", "age": int64(30)},
	}

	converted := convertValue(node)
	m, ok := converted.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []string{"Person"}, m["_labels"])
	assert.Equal(t, map[string]any{"name": "Alice", "age": int64(30)}, m["_properties"])
}

func TestConvertValue_Relationship(t *testing.T) {
	rel := neo4j.Relationship{
		Type:  "KNOWS",
		Props: map[string]any{"since": int64(2020)},
	}

	converted := convertValue(rel)
	m, ok := converted.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "KNOWS", m["_type"])
	assert.Equal(t, map[string]any{"since": int64(2020)}, m["_properties"])
}

func TestConvertValue_Path(t *testing.T) {
	path := neo4j.Path{
		Nodes: []neo4j.Node{
			{Labels: []string{"Person"}, Props: map[string]any{"name": "Alice"}},
			{Labels: []string{"Person"}, Props: map[string]any{"name": "Bob"}},
		},
		Relationships: []neo4j.Relationship{
			{Type: "KNOWS", Props: map[string]any{}},
		},
	}

	converted := convertValue(path)
	m, ok := converted.(map[string]any)
	require.True(t, ok)
	assert.Len(t, m["_nodes"], 2)
	assert.Len(t, m["_relationships"], 1)
}

func TestConvertValue_NestedCollections(t *testing.T) {
	val := []any{
		map[string]any{"node": neo4j.Node{Labels: []string{"X"}, Props: map[string]any{}}},
		int64(7),
		nil,
	}

	converted := convertValue(val).([]any)
	inner := converted[0].(map[string]any)["node"].(map[string]any)
	assert.Equal(t, []string{"X"}, inner["_labels"])
	assert.Equal(t, int64(7), converted[1])
	assert.Nil(t, converted[2])
}

func TestFormatSchema(t *testing.T) {
	nodeProps := map[string][]propertyInfo{
		"Person": {{Name: "name", Types: "String"}, {Name: "age", Types: "Long"}},
	}
	relProps := map[string][]propertyInfo{
		"KNOWS": {{Name: "since", Types: "Long"}},
	}
	patterns := []string{"(:Person)-[:KNOWS]->(:Person)"}

	schema := formatSchema(nodeProps, relProps, patterns)
	assert.Contains(t, schema, "Node properties:\nPerson {name: String, age: Long}")
	assert.Contains(t, schema, "Relationship properties:\nKNOWS {since: Long}")
	assert.Contains(t, schema, "Relationships:\n(:Person)-[:KNOWS]->(:Person)")
}

func TestAppendProperty(t *testing.T) {
	props := appendProperty(nil, map[string]any{
		"propertyName":  "name",
		"propertyTypes": []any{"String"},
	})
	require.Len(t, props, 1)
	assert.Equal(t, propertyInfo{Name: "name", Types: "String"}, props[0])

	// Rows without a property name are skipped (labels with no properties).
	props = appendProperty(props, map[string]any{"propertyName": nil})
	assert.Len(t, props, 1)
}
