package http_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	httpin "logistics/internal/adapters/in/http"
	"logistics/internal/adapters/out/memworld"
	"logistics/internal/adapters/out/snapshotfile"
	"logistics/internal/core/application/coordinator"
	"logistics/internal/core/application/usecases/commands"
	"logistics/internal/core/application/usecases/queries"
	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/generated/servers"
	"logistics/internal/metrics"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiFixture struct {
	world *memworld.World
	coord *coordinator.Coordinator
	e     *echo.Echo
	farm  *memworld.Building
	town  *memworld.Building
}

func newAPI(t *testing.T) *apiFixture {
	t.Helper()

	w := memworld.NewWorld()
	w.MarkReady()
	farm, err := w.AddBuilding("Farm", kernel.MustNewPosition(0, 0), 0, map[kernel.ResourceID]int{"bread": 25})
	require.NoError(t, err)
	town := w.AddCity("Town", kernel.MustNewPosition(320, 0))

	reg := prometheus.NewRegistry()
	collector, err := metrics.NewCollector(reg)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	coord, err := coordinator.New(coordinator.Settings{
		CarrierCapacity:  10,
		CarrierSpeed:     100,
		CostPerTile:      decimal.NewFromInt(1),
		FixedCarrierCost: decimal.NewFromInt(5),
		TileSize:         32,
	}, coordinator.Dependencies{
		Registry: w,
		Roads:    memworld.StraightRoads{},
		Economy:  memworld.NewEconomy(decimal.NewFromInt(1000)),
		Metrics:  collector,
		Logger:   logger,
	})
	require.NoError(t, err)
	require.NoError(t, coord.Attach(t.Context(), w))

	store, err := snapshotfile.NewStore(t.TempDir(), snapshotfile.JSON)
	require.NoError(t, err)

	tick := commands.NewTickCommandHandler(coord)
	server := httpin.NewServer(httpin.Handlers{
		AcceptOrder:     commands.NewAcceptDeliveryOrderCommandHandler(coord),
		RefreshOrders:   commands.NewRefreshOrdersCommandHandler(coord),
		ManualTransport: commands.NewManualTransportCommandHandler(coord),
		AddRoute:        commands.NewAddRouteCommandHandler(coord),
		RemoveRoute:     commands.NewRemoveRouteCommandHandler(coord),
		DestroyEntity:   commands.NewDestroyEntityCommandHandler(coord),
		FailJob:         commands.NewFailJobCommandHandler(coord),
		RoadsChanged:    commands.NewRoadNetworkChangedCommandHandler(coord),
		Tick:            &tick,
		Snapshots:       commands.NewSnapshotCommandHandler(coord, store),
		Jobs:            queries.NewGetJobsQueryHandler(coord),
		Orders:          queries.NewGetOrdersQueryHandler(coord),
		Carriers:        queries.NewGetCarriersQueryHandler(coord),
		Routes:          queries.NewGetRoutesQueryHandler(coord),
		Supply:          queries.NewGetSupplyQueryHandler(coord),
		Directory: func() []servers.Building {
			return []servers.Building{{Ref: farm.Ref().String(), Name: farm.Name()}}
		},
	}, reg)
	e, err := server.NewEcho()
	require.NoError(t, err)

	return &apiFixture{world: w, coord: coord, e: e, farm: farm, town: town}
}

func (f *apiFixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (f *apiFixture) orderBody(qty int) string {
	return `{"order_id": 1, "resource": "bread", "product_name": "Bread", "total": ` +
		itoa(qty) + `, "remaining": ` + itoa(qty) + `, "price_per_unit": "2", "target": "` + f.town.Ref().String() + `"}`
}

func itoa(n int) string {
	b, _ := json.Marshal(n)
	return string(b)
}

func TestHealth(t *testing.T) {
	f := newAPI(t)

	rec := f.do(t, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestAcceptOrder(t *testing.T) {
	t.Run("should plan jobs and list them", func(t *testing.T) {
		f := newAPI(t)

		rec := f.do(t, http.MethodPost, "/api/v1/orders", f.orderBody(25))

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		plan := decode[servers.PlanResult](t, rec)
		assert.True(t, plan.Success)
		assert.Equal(t, 25, plan.Quantity)
		assert.Len(t, plan.JobIds, 3)
		assert.Nil(t, plan.Reason)

		rec = f.do(t, http.MethodGet, "/api/v1/jobs?status=planned", "")
		require.Equal(t, http.StatusOK, rec.Code)
		jobs := decode[[]servers.Job](t, rec)
		assert.Len(t, jobs, 3)
		assert.True(t, jobs[0].Queued)

		rec = f.do(t, http.MethodGet, "/api/v1/orders?uncompleted=true", "")
		orders := decode[[]servers.Order](t, rec)
		require.Len(t, orders, 1)
		assert.Equal(t, 25, orders[0].Reserved)

		rec = f.do(t, http.MethodGet, "/api/v1/supply/bread", "")
		supply := decode[[]servers.SupplyRecord](t, rec)
		require.Len(t, supply, 1)
		assert.Equal(t, 0, supply[0].Free)
	})

	t.Run("should answer 422 with the reason when stock is short", func(t *testing.T) {
		f := newAPI(t)

		rec := f.do(t, http.MethodPost, "/api/v1/orders", f.orderBody(100))

		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		plan := decode[servers.PlanResult](t, rec)
		assert.False(t, plan.Success)
		require.NotNil(t, plan.Reason)
		assert.Equal(t, servers.PlanResultReasonInsufficientStock, *plan.Reason)
		assert.Empty(t, plan.JobIds)
	})

	t.Run("should reject an invalid body", func(t *testing.T) {
		f := newAPI(t)

		rec := f.do(t, http.MethodPost, "/api/v1/orders", `{"order_id": 1, "total": 5, "remaining": 9}`)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		body := decode[servers.Error](t, rec)
		assert.Equal(t, http.StatusBadRequest, body.Code)
		assert.Contains(t, body.Message, `"resource"`)
	})

	t.Run("should reject a malformed target", func(t *testing.T) {
		f := newAPI(t)
		body := strings.Replace(f.orderBody(5), f.town.Ref().String(), "city:not-a-uuid", 1)

		rec := f.do(t, http.MethodPost, "/api/v1/orders", body)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetJobs_BadStatus(t *testing.T) {
	f := newAPI(t)

	rec := f.do(t, http.MethodGet, "/api/v1/jobs?status=lost", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTickAndCarriers(t *testing.T) {
	f := newAPI(t)
	require.Equal(t, http.StatusCreated, f.do(t, http.MethodPost, "/api/v1/orders", f.orderBody(10)).Code)

	rec := f.do(t, http.MethodPost, "/api/v1/tick", `{"dt": 1}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode[servers.TickReport](t, rec).Dispatched)

	rec = f.do(t, http.MethodGet, "/api/v1/carriers", "")
	carriers := decode[[]servers.Carrier](t, rec)
	require.Len(t, carriers, 1)
	assert.Equal(t, 10, carriers[0].Quantity)
	require.NotNil(t, carriers[0].JobId)
	assert.Nil(t, carriers[0].RouteId)

	rec = f.do(t, http.MethodGet, "/api/v1/jobs?status=InTransit", "")
	jobs := decode[[]servers.Job](t, rec)
	require.Len(t, jobs, 1)
	require.NotNil(t, jobs[0].Carrier)
	assert.Equal(t, carriers[0].Id, *jobs[0].Carrier)

	rec = f.do(t, http.MethodPost, "/api/v1/tick", `{"dt": -1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRoutes(t *testing.T) {
	f := newAPI(t)
	body := `{"supplier": "` + f.farm.Ref().String() + `", "consumer": "` + f.town.Ref().String() +
		`", "resource": "bread", "period": 30, "capacity": 5}`

	rec := f.do(t, http.MethodPost, "/api/v1/routes", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[servers.RouteCreated](t, rec)

	rec = f.do(t, http.MethodGet, "/api/v1/routes", "")
	routes := decode[[]servers.Route](t, rec)
	require.Len(t, routes, 1)
	assert.Equal(t, created.Id, routes[0].Id)

	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodDelete, "/api/v1/routes/999", "").Code)
	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodDelete, "/api/v1/routes/abc", "").Code)
	assert.Equal(t, http.StatusNoContent, f.do(t, http.MethodDelete, "/api/v1/routes/"+itoa(int(created.Id)), "").Code)
}

func TestDestroyEntity(t *testing.T) {
	f := newAPI(t)
	require.Equal(t, http.StatusCreated, f.do(t, http.MethodPost, "/api/v1/orders", f.orderBody(20)).Code)

	rec := f.do(t, http.MethodPost, "/api/v1/entities/destroy", `{"entity": "`+f.farm.Ref().String()+`"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[servers.DestroyEntityResult](t, rec).FailedJobs, 2)
	assert.Empty(t, f.coord.Jobs())
}

func TestFailJob(t *testing.T) {
	f := newAPI(t)
	rec := f.do(t, http.MethodPost, "/api/v1/orders", f.orderBody(10))
	plan := decode[servers.PlanResult](t, rec)
	require.Len(t, plan.JobIds, 1)

	path := "/api/v1/jobs/" + itoa(int(plan.JobIds[0])) + "/fail"
	assert.Equal(t, http.StatusNoContent, f.do(t, http.MethodPost, path, "").Code)
	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodPost, path, "").Code)
}

func TestSnapshots(t *testing.T) {
	f := newAPI(t)
	require.Equal(t, http.StatusCreated, f.do(t, http.MethodPost, "/api/v1/orders", f.orderBody(20)).Code)

	require.Equal(t, http.StatusNoContent, f.do(t, http.MethodPost, "/api/v1/snapshots/autosave", "").Code)

	rec := f.do(t, http.MethodGet, "/api/v1/snapshots", "")
	assert.Equal(t, []string{"autosave"}, decode[servers.SlotList](t, rec).Slots)

	rec = f.do(t, http.MethodPost, "/api/v1/snapshots/autosave/load", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	restored := decode[servers.RestoreReport](t, rec)
	assert.Equal(t, 2, restored.Jobs)
	assert.Equal(t, 1, restored.Orders)

	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodPost, "/api/v1/snapshots/missing/load", "").Code)
	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPost, "/api/v1/snapshots/-bad", "").Code)
}

func TestMetricsAndBuildings(t *testing.T) {
	f := newAPI(t)
	require.Equal(t, http.StatusCreated, f.do(t, http.MethodPost, "/api/v1/orders", f.orderBody(10)).Code)

	rec := f.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `logistics_transport_jobs_planned_total{resource="bread"} 1`)

	rec = f.do(t, http.MethodGet, "/api/v1/buildings", "")
	buildings := decode[[]servers.Building](t, rec)
	require.Len(t, buildings, 1)
	assert.Equal(t, "Farm", buildings[0].Name)
}

func TestRequestValidation(t *testing.T) {
	cases := []struct {
		name    string
		method  string
		path    string
		body    string
		message string
	}{
		{"tick without dt", http.MethodPost, "/api/v1/tick", `{}`, `"dt"`},
		{"tick over the cap", http.MethodPost, "/api/v1/tick", `{"dt": 7200}`, "dt"},
		{"route without capacity", http.MethodPost, "/api/v1/routes",
			`{"supplier": "a", "consumer": "b", "resource": "bread", "period": 30, "capacity": 0}`, "capacity"},
		{"route with zero period", http.MethodPost, "/api/v1/routes",
			`{"supplier": "a", "consumer": "b", "resource": "bread", "period": 0, "capacity": 5}`, "period"},
		{"order with a malformed price", http.MethodPost, "/api/v1/orders",
			`{"order_id": 1, "resource": "bread", "total": 5, "remaining": 5, "price_per_unit": "two", "target": "x"}`, "price_per_unit"},
		{"refresh with a string total", http.MethodPut, "/api/v1/orders",
			`{"demands": [{"order_id": 1, "resource": "bread", "total": "5", "remaining": 5, "price_per_unit": "2"}]}`, "total"},
		{"transport without a body", http.MethodPost, "/api/v1/transports", "", "body"},
		{"orders with a non boolean filter", http.MethodGet, "/api/v1/orders?uncompleted=maybe", "", "uncompleted"},
		{"job id that is not a number", http.MethodPost, "/api/v1/jobs/abc/fail", "", "id"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newAPI(t)

			rec := f.do(t, tc.method, tc.path, tc.body)

			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			body := decode[servers.Error](t, rec)
			assert.Equal(t, http.StatusBadRequest, body.Code)
			assert.Contains(t, body.Message, tc.message)
		})
	}

	t.Run("should reject more remaining than total", func(t *testing.T) {
		f := newAPI(t)
		body := strings.Replace(f.orderBody(5), `"remaining": 5`, `"remaining": 9`, 1)

		rec := f.do(t, http.MethodPost, "/api/v1/orders", body)

		require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		assert.Contains(t, decode[servers.Error](t, rec).Message, "remaining")
	})

	t.Run("should not touch state when a request is rejected", func(t *testing.T) {
		f := newAPI(t)

		rec := f.do(t, http.MethodPost, "/api/v1/orders",
			`{"order_id": 1, "resource": "bread", "total": 0, "remaining": 0, "price_per_unit": "2", "target": "x"}`)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, f.coord.Jobs())
		rec = f.do(t, http.MethodGet, "/api/v1/orders", "")
		assert.Empty(t, decode[[]servers.Order](t, rec))
	})
}

func TestSwaggerDocs(t *testing.T) {
	f := newAPI(t)

	rec := f.do(t, http.MethodGet, "/swagger/doc.json", "")

	require.Equal(t, http.StatusOK, rec.Code)
	doc := decode[map[string]any](t, rec)
	assert.Equal(t, "3.0.3", doc["openapi"])
	paths, ok := doc["paths"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, paths, "/api/v1/orders")
	assert.Contains(t, paths, "/api/v1/snapshots/{slot}/load")

	assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/swagger/index.html", "").Code)
}

func TestOptionalEndpoints(t *testing.T) {
	reg := prometheus.NewRegistry()
	e, err := httpin.NewServer(httpin.Handlers{}, reg).NewEcho()
	require.NoError(t, err)

	for _, path := range []string{"/api/v1/snapshots/saved", "/api/v1/buildings"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

		assert.Equal(t, http.StatusNotImplemented, rec.Code, path)
		assert.Equal(t, http.StatusNotImplemented, decode[servers.Error](t, rec).Code)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/nowhere", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, http.StatusNotFound, decode[servers.Error](t, rec).Code)
}
