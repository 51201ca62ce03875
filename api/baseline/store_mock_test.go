package baseline

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/linebalance/core/monitoring"
	"github.com/kilianp07/linebalance/core/scenario"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Save(s scenario.Scenario) (scenario.Scenario, error) {
	args := m.Called(s)
	return args.Get(0).(scenario.Scenario), args.Error(1)
}

func (m *mockStore) Get(id string) (scenario.Scenario, error) {
	args := m.Called(id)
	return args.Get(0).(scenario.Scenario), args.Error(1)
}

func (m *mockStore) List() ([]scenario.Metadata, error) {
	args := m.Called()
	list, _ := args.Get(0).([]scenario.Metadata)
	return list, args.Error(1)
}

func (m *mockStore) Delete(id string) error { return m.Called(id).Error(0) }

func (m *mockStore) Close() error { return m.Called().Error(0) }

type captureMonitor struct {
	errs []error
	tags []map[string]string
}

func (c *captureMonitor) CaptureException(err error, tags map[string]string) {
	c.errs = append(c.errs, err)
	c.tags = append(c.tags, tags)
}

func (c *captureMonitor) Flush(time.Duration) {}

func TestStoreFailuresAreReported(t *testing.T) {
	mon := &captureMonitor{}
	monitoring.Init(mon)
	defer monitoring.Init(nil)

	store := &mockStore{}
	store.On("List").Return(nil, errors.New("disk full"))
	store.On("Get", "s1").Return(scenario.Scenario{}, errors.New("corrupt row"))
	store.On("Delete", "s2").Return(scenario.ErrNotFound)
	store.On("Save", mock.MatchedBy(func(s scenario.Scenario) bool { return s.Name == "Lote B" && s.Result != nil })).
		Return(scenario.Scenario{}, errors.New("locked"))
	srv := newServer(t, store)

	resp, err := http.Get(srv.URL + "/v1/scenarios")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/v1/scenarios/s1")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/v1/scenarios/s2", nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = postJSON(t, srv.URL+"/v1/scenarios", saveRequest{Name: "Lote B", Project: project()})
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "internal error", decode[errorResponse](t, resp).Error)

	store.AssertExpectations(t)
	require.Len(t, mon.errs, 3)
	assert.Equal(t, "list scenarios", mon.tags[0]["op"])
	assert.Equal(t, "get scenario", mon.tags[1]["op"])
	assert.Equal(t, "save scenario", mon.tags[2]["op"])
}

func TestPanicsAreRecovered(t *testing.T) {
	mon := &captureMonitor{}
	monitoring.Init(mon)
	defer monitoring.Init(nil)

	store := &mockStore{}
	store.On("List").Run(func(mock.Arguments) { panic("nil map") }).Return(nil, nil)
	srv := newServer(t, store)

	resp, err := http.Get(srv.URL + "/v1/scenarios")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	require.Len(t, mon.errs, 1)
	assert.EqualError(t, mon.errs[0], "panic: nil map")
	assert.Equal(t, "/v1/scenarios", mon.tags[0]["path"])
}

func TestHealthz(t *testing.T) {
	rr := httptest.NewRecorder()
	NewHandler(nil, nil, nil, 0).Routes().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}
