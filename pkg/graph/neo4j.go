package graph

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Neo4jConfig holds the connection settings for a Neo4j-backed store.
type Neo4jConfig struct {
	URI      string // defaults to bolt://localhost:7687
	Database string // defaults to neo4j
	Username string // defaults to neo4j
	Password string
	Logger   *slog.Logger
}

// Neo4jStore implements Store over the Bolt protocol.
type Neo4jStore struct {
	driver   neo4j.DriverWithContext
	database string
	log      *slog.Logger
}

// NewNeo4jStore creates a Neo4j-backed store and verifies connectivity,
// retrying with exponential backoff so a store that starts alongside the
// database does not fail on the first probe.
func NewNeo4jStore(ctx context.Context, cfg Neo4jConfig) (*Neo4jStore, error) {
	if cfg.URI == "" {
		cfg.URI = "bolt://localhost:7687"
	}
	if cfg.Database == "" {
		cfg.Database = "neo4j"
	}
	if cfg.Username == "" {
		cfg.Username = "neo4j"
	}

	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.Username, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxInterval = 5 * time.Second
	_, err = backoff.Retry(ctx, func() (struct{}, error) {
		return struct{}{}, driver.VerifyConnectivity(ctx)
	}, backoff.WithBackOff(bo), backoff.WithMaxTries(5))
	if err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("failed to verify neo4j connectivity: %w", err)
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("connected to neo4j", "uri", cfg.URI, "database", cfg.Database)
	}

	return &Neo4jStore{
		driver:   driver,
		database: cfg.Database,
		log:      cfg.Logger,
	}, nil
}

// Close releases the underlying driver.
func (s *Neo4jStore) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}

func (s *Neo4jStore) session(ctx context.Context) neo4j.SessionWithContext {
	return s.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: s.database})
}

// Query executes a Cypher statement in a read transaction and returns the
// collected records as plain Go values.
func (s *Neo4jStore) Query(ctx context.Context, statement string) (Result, error) {
	session := s.session(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, statement, nil)
		if err != nil {
			return nil, err
		}

		records, err := res.Collect(ctx)
		if err != nil {
			return nil, err
		}

		var columns []string
		if len(records) > 0 {
			columns = records[0].Keys
		}

		rows := make([]map[string]any, 0, len(records))
		for _, record := range records {
			row := make(map[string]any)
			for _, key := range record.Keys {
				val, _ := record.Get(key)
				row[key] = convertValue(val)
			}
			rows = append(rows, row)
		}

		return Result{
			Statement: statement,
			Columns:   columns,
			Rows:      rows,
			Count:     len(rows),
		}, nil
	})
	if err != nil {
		return Result{}, err
	}

	return result.(Result), nil
}

// convertValue converts Neo4j driver types to standard Go types.
func convertValue(val any) any {
	if val == nil {
		return nil
	}

	switch v := val.(type) {
	case neo4j.Node:
		props := make(map[string]any)
		for k, pv := range v.Props {
			props[k] = convertValue(pv)
		}
		return map[string]any{
			"_labels":     v.Labels,
			"_properties": props,
		}
	case neo4j.Relationship:
		props := make(map[string]any)
		for k, pv := range v.Props {
			props[k] = convertValue(pv)
		}
		return map[string]any{
			"_type":       v.Type,
			"_properties": props,
		}
	case neo4j.Path:
		nodes := make([]any, len(v.Nodes))
		for i, n := range v.Nodes {
			nodes[i] = convertValue(n)
		}
		rels := make([]any, len(v.Relationships))
		for i, r := range v.Relationships {
			rels[i] = convertValue(r)
		}
		return map[string]any{
			"_nodes":         nodes,
			"_relationships": rels,
		}
	case []any:
		result := make([]any, len(v))
		for i, item := range v {
			result[i] = convertValue(item)
		}
		return result
	case map[string]any:
		result := make(map[string]any)
		for k, item := range v {
			result[k] = convertValue(item)
		}
		return result
	default:
		return v
	}
}

// Schema introspects node labels, relationship types, their properties, and
// the relationship patterns present in the graph, and formats them as text
// for the generation prompt. The schema is read live on every call.
func (s *Neo4jStore) Schema(ctx context.Context) (string, error) {
	nodeProps, err := s.nodeProperties(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to fetch node properties: %w", err)
	}

	relProps, err := s.relationshipProperties(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to fetch relationship properties: %w", err)
	}

	patterns, err := s.relationshipPatterns(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to fetch relationship patterns: %w", err)
	}

	return formatSchema(nodeProps, relProps, patterns), nil
}

func (s *Neo4jStore) nodeProperties(ctx context.Context) (map[string][]propertyInfo, error) {
	rows, err := s.readRows(ctx, `
		CALL db.schema.nodeTypeProperties()
		YIELD nodeLabels, propertyName, propertyTypes
		RETURN nodeLabels, propertyName, propertyTypes
	`)
	if err != nil {
		return nil, err
	}

	props := make(map[string][]propertyInfo)
	for _, row := range rows {
		labels, _ := row["nodeLabels"].([]any)
		for _, l := range labels {
			label, ok := l.(string)
			if !ok {
				continue
			}
			props[label] = appendProperty(props[label], row)
		}
	}
	return props, nil
}

func (s *Neo4jStore) relationshipProperties(ctx context.Context) (map[string][]propertyInfo, error) {
	rows, err := s.readRows(ctx, `
		CALL db.schema.relTypeProperties()
		YIELD relType, propertyName, propertyTypes
		RETURN relType, propertyName, propertyTypes
	`)
	if err != nil {
		return nil, err
	}

	props := make(map[string][]propertyInfo)
	for _, row := range rows {
		relType, ok := row["relType"].(string)
		if !ok {
			continue
		}
		// relType comes back as `:`RELTYPE`` from the procedure
		relType = strings.Trim(strings.TrimPrefix(relType, ":"), "`")
		props[relType] = appendProperty(props[relType], row)
	}
	return props, nil
}

func (s *Neo4jStore) relationshipPatterns(ctx context.Context) ([]string, error) {
	rows, err := s.readRows(ctx, `
		MATCH (a)-[r]->(b)
		WITH labels(a) AS from, type(r) AS rel, labels(b) AS to
		RETURN DISTINCT from, rel, to
		LIMIT 100
	`)
	if err != nil {
		return nil, err
	}

	var patterns []string
	for _, row := range rows {
		from := labelString(row["from"])
		to := labelString(row["to"])
		rel, _ := row["rel"].(string)
		if rel == "" {
			continue
		}
		patterns = append(patterns, fmt.Sprintf("(:%s)-[:%s]->(:%s)", from, rel, to))
	}
	sort.Strings(patterns)
	return patterns, nil
}

func (s *Neo4jStore) readRows(ctx context.Context, statement string) ([]map[string]any, error) {
	result, err := s.Query(ctx, statement)
	if err != nil {
		return nil, err
	}
	return result.Rows, nil
}

type propertyInfo struct {
	Name  string
	Types string
}

func appendProperty(props []propertyInfo, row map[string]any) []propertyInfo {
	name, ok := row["propertyName"].(string)
	if !ok || name == "" {
		return props
	}

	var types []string
	if raw, ok := row["propertyTypes"].([]any); ok {
		for _, t := range raw {
			if ts, ok := t.(string); ok {
				types = append(types, ts)
			}
		}
	}

	return append(props, propertyInfo{Name: name, Types: strings.Join(types, "|")})
}

func labelString(v any) string {
	labels, _ := v.([]any)
	parts := make([]string, 0, len(labels))
	for _, l := range labels {
		if s, ok := l.(string); ok {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ":")
}

// formatSchema renders the introspected schema as readable text.
func formatSchema(nodeProps, relProps map[string][]propertyInfo, patterns []string) string {
	var sb strings.Builder

	sb.WriteString("Node properties:\n")
	for _, label := range sortedKeys(nodeProps) {
		sb.WriteString(fmt.Sprintf("%s {%s}\n", label, propertyList(nodeProps[label])))
	}

	sb.WriteString("\nRelationship properties:\n")
	for _, relType := range sortedKeys(relProps) {
		sb.WriteString(fmt.Sprintf("%s {%s}\n", relType, propertyList(relProps[relType])))
	}

	sb.WriteString("\nRelationships:\n")
	for _, p := range patterns {
		sb.WriteString(p + "\n")
	}

	return sb.String()
}

func propertyList(props []propertyInfo) string {
	parts := make([]string, 0, len(props))
	for _, p := range props {
		parts = append(parts, fmt.Sprintf("%s: %s", p.Name, p.Types))
	}
	return strings.Join(parts, ", ")
}

func sortedKeys(m map[string][]propertyInfo) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
