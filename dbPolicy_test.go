package dbroute

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func defaultRule(t *testing.T, cluster ClusterConfig) *FragmentRule {
	t.Helper()
	rule, err := CompileFragmentRule(DefaultFragmentRule(), cluster)
	require.NoError(t, err)
	return rule
}

type policyCase struct {
	name    string
	op      Operation
	req     RouteRequest
	want    RoutingDecision
	wantErr error
}

func runPolicyCases(t *testing.T, p Policy, tests []policyCase) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := p.Resolve(context.Background(), tt.op, tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d)
		})
	}
}

func TestReplicatedPolicy(t *testing.T) {
	runPolicyCases(t, ReplicatedPolicy{Cluster: twoNodes()}, []policyCase{
		{name: "write defaults to primary", op: Write, want: RoutingDecision{Node: "FIS", Reason: ReasonFixedPrimary}},
		{name: "write to primary by name", op: Write, req: RouteRequest{Node: "fis"}, want: RoutingDecision{Node: "FIS", Reason: ReasonFixedPrimary}},
		{name: "write to replica rejected", op: Write, req: RouteRequest{Node: "FIQA"}, wantErr: ErrInvalidWriteTarget},
		{name: "write to unknown node", op: Write, req: RouteRequest{Node: "FIEC"}, wantErr: ErrUnknownNode},
		{name: "read defaults to primary", op: Read, want: RoutingDecision{Node: "FIS", Reason: ReasonReadAny}},
		{name: "read from replica", op: Read, req: RouteRequest{Node: "fiqa"}, want: RoutingDecision{Node: "FIQA", Reason: ReasonReadAny}},
		{name: "read from unknown node", op: Read, req: RouteRequest{Node: "FIEC"}, wantErr: ErrUnknownNode},
	})

	undefined := NewClusterConfig("FIEC", NodeConfig{Name: "FIS"}, NodeConfig{Name: "FIQA"})
	runPolicyCases(t, ReplicatedPolicy{Cluster: undefined}, []policyCase{
		{name: "write without primary", op: Write, wantErr: ErrPrimaryUndefined},
		{name: "read without primary", op: Read, wantErr: ErrPrimaryUndefined},
		{name: "read with explicit node needs no primary", op: Read, req: RouteRequest{Node: "FIQA"}, want: RoutingDecision{Node: "FIQA", Reason: ReasonReadAny}},
	})
}

func TestFragmentedPolicy(t *testing.T) {
	cluster := twoNodes()
	p := FragmentedPolicy{Cluster: cluster, Rule: defaultRule(t, cluster)}
	runPolicyCases(t, p, []policyCase{
		{name: "write key 01", op: Write, req: RouteRequest{FragmentKey: "01"}, want: RoutingDecision{Node: "FIS", Reason: ReasonFragmentKey}},
		{name: "write key 02", op: Write, req: RouteRequest{FragmentKey: "02"}, want: RoutingDecision{Node: "FIQA", Reason: ReasonFragmentKey}},
		{name: "key wins over explicit node", op: Write, req: RouteRequest{Node: "FIS", FragmentKey: "02"}, want: RoutingDecision{Node: "FIQA", Reason: ReasonFragmentKey}},
		{name: "write without key", op: Write, req: RouteRequest{Node: "FIS"}, wantErr: ErrUnknownFragmentKey},
		{name: "write with key outside the set", op: Write, req: RouteRequest{FragmentKey: "03"}, wantErr: ErrUnknownFragmentKey},
		{name: "write with unknown explicit node", op: Write, req: RouteRequest{Node: "FIEC", FragmentKey: "01"}, wantErr: ErrUnknownNode},
		{name: "read by key", op: Read, req: RouteRequest{FragmentKey: "02"}, want: RoutingDecision{Node: "FIQA", Reason: ReasonFragmentKey}},
		{name: "read explicit node", op: Read, req: RouteRequest{Node: "fiqa", FragmentKey: "01"}, want: RoutingDecision{Node: "FIQA", Reason: ReasonReadAny}},
		{name: "read without key or node", op: Read, want: RoutingDecision{Node: "FIS", Reason: ReasonReadAny}},
		{name: "read by unknown key", op: Read, req: RouteRequest{FragmentKey: "99"}, wantErr: ErrUnknownFragmentKey},
	})
}

func TestFragmentedPolicyLogsRedirect(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	cluster := twoNodes()
	p := FragmentedPolicy{Cluster: cluster, Rule: defaultRule(t, cluster), Logger: zap.New(core)}

	_, err := p.Resolve(context.Background(), Write, RouteRequest{Node: "FIS", FragmentKey: "02"})
	require.NoError(t, err)
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "FIS", entry.ContextMap()["requested"])
	assert.Equal(t, "FIQA", entry.ContextMap()["owner"])

	_, err = p.Resolve(context.Background(), Write, RouteRequest{Node: "FIQA", FragmentKey: "02"})
	require.NoError(t, err)
	assert.Equal(t, 1, logs.Len(), "agreeing node is not logged")
}

func TestMixedPolicy(t *testing.T) {
	cluster := twoNodes()
	p := MixedPolicy{Cluster: cluster, Rule: defaultRule(t, cluster)}
	runPolicyCases(t, p, []policyCase{
		{name: "write key 02 runs on primary", op: Write, req: RouteRequest{FragmentKey: "02"}, want: RoutingDecision{Node: "FIS", Reason: ReasonFixedPrimary}},
		{name: "write to non-primary rejected", op: Write, req: RouteRequest{Node: "FIQA", FragmentKey: "02"}, wantErr: ErrInvalidWriteTarget},
		{name: "write with key outside the set", op: Write, req: RouteRequest{FragmentKey: "07"}, wantErr: ErrUnknownFragmentKey},
		{name: "read any node", op: Read, req: RouteRequest{Node: "FIQA"}, want: RoutingDecision{Node: "FIQA", Reason: ReasonReadAny}},
		{name: "read defaults to primary", op: Read, want: RoutingDecision{Node: "FIS", Reason: ReasonReadAny}},
	})
}
