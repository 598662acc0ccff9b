package gateway

import (
	"context"
	"strings"
	"testing"

	"biblioteca/dbroute"
	"github.com/stretchr/testify/require"
)

type recordedCall struct {
	node      string
	statement string
	params    []interface{}
	decision  dbroute.RoutingDecision
}

// fakeExecutor records every call and keeps aisles per node so a write can be
// read back from the node it landed on
type fakeExecutor struct {
	calls  []recordedCall
	rows   []dbroute.Row
	errs   map[string]error
	panics bool
	aisles map[string][]dbroute.Row
}

func newFakeExecutor() *fakeExecutor {
	return &fakeExecutor{errs: map[string]error{}, aisles: map[string][]dbroute.Row{}}
}

func (f *fakeExecutor) record(ctx context.Context, node, statement string, params []interface{}) error {
	d, _ := dbroute.DecisionFrom(ctx)
	f.calls = append(f.calls, recordedCall{node: node, statement: statement, params: params, decision: d})
	if f.panics {
		panic("driver exploded")
	}
	return f.errs[node]
}

func (f *fakeExecutor) ExecuteRead(ctx context.Context, node string, statement string, params ...interface{}) ([]dbroute.Row, error) {
	if err := f.record(ctx, node, statement, params); err != nil {
		return nil, err
	}
	if strings.HasPrefix(statement, "EXEC sp_Consultar_Pasillo") {
		out := []dbroute.Row{}
		for _, row := range f.aisles[node] {
			lib, _ := row.Get("id_biblioteca")
			if len(params) == 0 || lib == params[0] {
				out = append(out, row)
			}
		}
		return out, nil
	}
	return f.rows, nil
}

func (f *fakeExecutor) ExecuteWrite(ctx context.Context, node string, statement string, params ...interface{}) (int64, error) {
	if err := f.record(ctx, node, statement, params); err != nil {
		return 0, err
	}
	if strings.HasPrefix(statement, "EXEC sp_Insertar_Pasillo") {
		f.aisles[node] = append(f.aisles[node], dbroute.Row{
			{Name: "id_biblioteca", Value: params[0]},
			{Name: "num_pasillo", Value: params[1]},
		})
	}
	return 1, nil
}

func testCluster() dbroute.ClusterConfig {
	return dbroute.NewClusterConfig("FIS",
		dbroute.NodeConfig{Name: "FIS", Server: "WIN-PHDDNKD39M9", Database: "BibliotecaFIS"},
		dbroute.NodeConfig{Name: "FIQA", Server: "Slim", Database: "BibliotecaFIQA"})
}

func testGateways(t *testing.T, exec Executor, opts ...Option) *Gateways {
	t.Helper()
	cluster := testCluster()
	rules, err := dbroute.CompileFragmentRules(nil, cluster)
	require.NoError(t, err)
	g, err := New(exec, cluster, rules, opts...)
	require.NoError(t, err)
	return g
}
