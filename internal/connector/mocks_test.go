package connector_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Mohsinsiddi/w3gate/internal/approval"
	"github.com/Mohsinsiddi/w3gate/internal/network"
)

// mockRegistry implements connector.Registry
type mockRegistry struct {
	mock.Mock
}

func (m *mockRegistry) FindByChainID(chainID string) *network.Configuration {
	args := m.Called(chainID)
	res := args.Get(0)
	if res == nil {
		return nil
	}
	return res.(*network.Configuration)
}

func (m *mockRegistry) Upsert(cfg network.Configuration, prov network.Provenance) (string, error) {
	args := m.Called(cfg, prov)
	return args.String(0), args.Error(1)
}

// mockActive implements connector.ActiveState
type mockActive struct {
	mock.Mock
}

func (m *mockActive) Current(origin string) (network.Active, error) {
	args := m.Called(origin)
	return args.Get(0).(network.Active), args.Error(1)
}

func (m *mockActive) SetActive(origin, configID string) error {
	return m.Called(origin, configID).Error(0)
}

// mockApprovals implements connector.Approvals
type mockApprovals struct {
	mock.Mock
}

func (m *mockApprovals) StartFlow() string {
	return m.Called().String(0)
}

func (m *mockApprovals) EndFlow(id string) {
	m.Called(id)
}

func (m *mockApprovals) RequestApproval(_ context.Context, flowID string, typ approval.Type, origin string, fields [][2]string) error {
	return m.Called(flowID, typ, origin, fields).Error(0)
}
