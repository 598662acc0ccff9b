package dbroute

import (
	"path/filepath"
	"strings"
	"testing"
)

// sqliteNode node backed by a fresh sqlite file
func sqliteNode(t *testing.T, name string) NodeConfig {
	t.Helper()
	return NodeConfig{
		Name:     name,
		DBType:   SQLite,
		Database: filepath.Join(t.TempDir(), strings.ToLower(name)+".db"),
	}
}

// unreachableNode node whose database file cannot be opened
func unreachableNode(t *testing.T, name string) NodeConfig {
	t.Helper()
	return NodeConfig{
		Name:     name,
		DBType:   SQLite,
		Database: filepath.Join(t.TempDir(), "missing", strings.ToLower(name)+".db"),
	}
}

func testCluster(t *testing.T) ClusterConfig {
	t.Helper()
	return NewClusterConfig("FIS", sqliteNode(t, "FIS"), sqliteNode(t, "FIQA"))
}
