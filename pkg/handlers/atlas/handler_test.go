package atlas

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/climfin/finance-atlas/pkg/models/api"
	"github.com/climfin/finance-atlas/pkg/models/domain"
	"github.com/climfin/finance-atlas/pkg/services/dashboard"
	"github.com/climfin/finance-atlas/pkg/services/styler"
	"github.com/go-chi/chi/v5"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockDashboard struct {
	mock.Mock
}

func (m *mockDashboard) MapView(ctx context.Context, req dashboard.MapRequest) (*dashboard.MapView, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dashboard.MapView), args.Error(1)
}

func (m *mockDashboard) CountryInfo(ctx context.Context, req dashboard.MapRequest, code string) (*dashboard.CountryInfo, error) {
	args := m.Called(ctx, req, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dashboard.CountryInfo), args.Error(1)
}

func (m *mockDashboard) CategoryVolumes(ctx context.Context, req dashboard.MapRequest, code string) ([]dashboard.CategoryVolume, error) {
	args := m.Called(ctx, req, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dashboard.CategoryVolume), args.Error(1)
}

func (m *mockDashboard) CountryFlows(ctx context.Context, req dashboard.MapRequest, code string) ([]domain.CountryRecord, error) {
	args := m.Called(ctx, req, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CountryRecord), args.Error(1)
}

func (m *mockDashboard) Export(ctx context.Context, filters domain.Filters, aggregated bool, w io.Writer) error {
	args := m.Called(ctx, filters, aggregated, w)
	if text := args.String(0); text != "" {
		_, _ = io.WriteString(w, text)
	}
	return args.Error(1)
}

func (m *mockDashboard) SubcategoryOptions(categories []string) []string {
	return m.Called(categories).Get(0).([]string)
}

func setupRouter(svc dashboard.Service) http.Handler {
	h := NewHandler(svc)
	r := chi.NewRouter()
	r.Get("/map", h.GetMap)
	r.Get("/countries/{code}", h.GetCountry)
	r.Get("/countries/{code}/flows", h.GetCountryFlows)
	r.Get("/volumes", h.GetVolumes)
	r.Get("/taxonomy", h.GetTaxonomy)
	r.Get("/export.csv", h.ExportCSV)
	return r
}

func serve(t *testing.T, svc dashboard.Service, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	setupRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func testView() *dashboard.MapView {
	f := geojson.NewFeature(orb.Point{10, 51})
	f.ID = "DEU"
	f.Properties["value"] = 120.0
	f.Properties[styler.FillColorProperty] = "#ff4500"
	fc := geojson.NewFeatureCollection()
	fc.Append(f)

	lo, hi := 120.0, 120.0
	return &dashboard.MapView{
		Collection: fc,
		Style: styler.StyleSpec{
			Mode:        domain.ModeTotal,
			ColorMode:   domain.ColorContinuous,
			Handle:      styler.HandleContinuous,
			Colorscale:  []string{"#00BFFF", "#FFFF00", "#FF4500"},
			Min:         &lo,
			Max:         &hi,
			NoDataColor: styler.NoDataColor,
		},
		Legend: []styler.LegendEntry{{Label: "min 120.0", Color: "#00bfff", From: 120, To: 120}},
		Rows:   2,
	}
}

func TestGetMap(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		setupMock      func(*mockDashboard)
		expectedStatus int
	}{
		{
			name:  "successful response",
			query: "/map?year=2020&mode=total",
			setupMock: func(m *mockDashboard) {
				m.On("MapView", mock.Anything, mock.MatchedBy(func(r dashboard.MapRequest) bool {
					return r.Mode == domain.ModeTotal && r.Filters.Years == domain.SingleYear(2020)
				})).Return(testView(), nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "invalid mode",
			query:          "/map?mode=heat",
			setupMock:      func(m *mockDashboard) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:  "invalid donor type",
			query: "/map?donor_types=Hedge+Fund",
			setupMock: func(m *mockDashboard) {
				m.On("MapView", mock.Anything, mock.Anything).
					Return(nil, fmt.Errorf("build query: %w", domain.ErrInvalidFilter))
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:  "missing column",
			query: "/map",
			setupMock: func(m *mockDashboard) {
				m.On("MapView", mock.Anything, mock.Anything).
					Return(nil, fmt.Errorf("failed to query flows: %w", domain.ErrMissingColumn))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Given
			svc := new(mockDashboard)
			tt.setupMock(svc)

			// When
			rec := serve(t, svc, tt.query)

			// Then
			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			svc.AssertExpectations(t)

			if tt.expectedStatus != http.StatusOK {
				var body api.ErrorResponse
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
				assert.NotEmpty(t, body.Error)
				return
			}

			var body struct {
				Mode    string        `json:"mode"`
				Rows    int           `json:"rows"`
				Style   api.StyleSpec `json:"style"`
				GeoJSON struct {
					Features []struct {
						ID         string         `json:"id"`
						Properties map[string]any `json:"properties"`
					} `json:"features"`
				} `json:"geojson"`
			}
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, "total", body.Mode)
			assert.Equal(t, 2, body.Rows)
			assert.Equal(t, "continuous", body.Style.Handle)
			require.Len(t, body.GeoJSON.Features, 1)
			assert.Equal(t, "DEU", body.GeoJSON.Features[0].ID)
			assert.Equal(t, 120.0, body.GeoJSON.Features[0].Properties["value"])
		})
	}
}

func TestGetCountry(t *testing.T) {
	tests := []struct {
		name           string
		setupMock      func(*mockDashboard)
		expectedStatus int
		expectedBody   api.CountryInfo
	}{
		{
			name: "available",
			setupMock: func(m *mockDashboard) {
				m.On("CountryInfo", mock.Anything, mock.Anything, "DEU").Return(&dashboard.CountryInfo{
					Code: "DEU", Name: "Germany", Mode: domain.ModeTotal, Total: 120, Available: true,
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   api.CountryInfo{Code: "DEU", Name: "Germany", Mode: "total", Total: 120, Available: true},
		},
		{
			name: "not in mode table",
			setupMock: func(m *mockDashboard) {
				m.On("CountryInfo", mock.Anything, mock.Anything, "DEU").Return(&dashboard.CountryInfo{
					Code: "DEU", Name: "Germany", Mode: domain.ModeTotal,
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody: api.CountryInfo{
				Code: "DEU", Name: "Germany", Mode: "total", Message: "No data available for this country.",
			},
		},
		{
			name: "missing column degrades to no data",
			setupMock: func(m *mockDashboard) {
				m.On("CountryInfo", mock.Anything, mock.Anything, "DEU").Return(nil, domain.ErrMissingColumn)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   api.CountryInfo{Code: "DEU", Message: "No data available for this country."},
		},
		{
			name: "store failure",
			setupMock: func(m *mockDashboard) {
				m.On("CountryInfo", mock.Anything, mock.Anything, "DEU").Return(nil, fmt.Errorf("connection refused"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockDashboard)
			tt.setupMock(svc)

			rec := serve(t, svc, "/countries/deu?mode=total")

			assert.Equal(t, tt.expectedStatus, rec.Code)
			svc.AssertExpectations(t)
			if tt.expectedStatus != http.StatusOK {
				return
			}

			var body api.CountryInfo
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.expectedBody, body)
		})
	}
}

func TestGetCountryFlows(t *testing.T) {
	svc := new(mockDashboard)
	svc.On("CountryFlows", mock.Anything, mock.MatchedBy(func(r dashboard.MapRequest) bool {
		return len(r.Filters.Subcategories) == 1 && r.Filters.Subcategories[0] == "Solar-energy"
	}), "IND").Return([]domain.CountryRecord{{
		Year: 2020, CountryCode: "IND", CountryName: "India", USDDisbursement: 50,
		ClimateMitigation: 2, MetaCategory: "Mitigation", ClimateClass: "Solar-energy",
	}}, nil)
	svc.On("CountryFlows", mock.Anything, mock.Anything, "FRA").Return(nil, domain.ErrMissingColumn)

	rec := serve(t, svc, "/countries/IND/flows?type=recipients&subcategories=Solar-energy")
	require.Equal(t, http.StatusOK, rec.Code)
	var body api.FlowsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.True(t, body.Available)
	require.Len(t, body.Flows, 1)
	assert.Equal(t, "Solar-energy", body.Flows[0].ClimateClass)

	rec = serve(t, svc, "/countries/FRA/flows")
	require.Equal(t, http.StatusOK, rec.Code)
	body = api.FlowsResponse{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.False(t, body.Available)
	assert.Equal(t, "No data available for this country.", body.Message)
	assert.Empty(t, body.Flows)
}

func TestGetVolumes(t *testing.T) {
	svc := new(mockDashboard)
	volumes := []dashboard.CategoryVolume{
		{Category: domain.CategoryAdaptation, Volume: 70},
		{Category: domain.CategoryMitigation, Volume: 80},
		{Category: domain.CategoryEnvironment, Volume: 0},
	}
	svc.On("CategoryVolumes", mock.Anything, mock.Anything, "").Return(volumes, nil)
	svc.On("CategoryVolumes", mock.Anything, mock.Anything, "USA").Return(nil, domain.ErrMissingColumn)

	rec := serve(t, svc, "/volumes")
	require.Equal(t, http.StatusOK, rec.Code)
	var body api.VolumesResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, []api.CategoryVolume{
		{Category: "Adaptation", Volume: 70},
		{Category: "Mitigation", Volume: 80},
		{Category: "Environment", Volume: 0},
	}, body.Volumes)

	rec = serve(t, svc, "/volumes?country=usa")
	require.Equal(t, http.StatusOK, rec.Code)
	body = api.VolumesResponse{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.False(t, body.Available)
	assert.Equal(t, "USA", body.Country)
}

func TestGetTaxonomy(t *testing.T) {
	svc := new(mockDashboard)
	svc.On("SubcategoryOptions", []string{"Adaptation"}).Return([]string{"Adaptation"})

	rec := serve(t, svc, "/taxonomy?categories=Adaptation")

	require.Equal(t, http.StatusOK, rec.Code)
	var body api.Taxonomy
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, []string{"Adaptation"}, body.Subcategories)
	assert.Len(t, body.Categories, 3)
	assert.Len(t, body.Modes, 5)
}

func TestExportCSV(t *testing.T) {
	t.Run("streams csv", func(t *testing.T) {
		svc := new(mockDashboard)
		svc.On("Export", mock.Anything, mock.MatchedBy(func(f domain.Filters) bool {
			return f.Years == domain.YearRange(2018, 2020)
		}), true, mock.Anything).Return("year,total_disbursement\n2019,10\n", nil)

		rec := serve(t, svc, "/export.csv?from=2018&to=2020&aggregated=true")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "climate_finance.csv")
		assert.Equal(t, "year,total_disbursement\n2019,10\n", rec.Body.String())
	})

	t.Run("invalid filter", func(t *testing.T) {
		svc := new(mockDashboard)
		svc.On("Export", mock.Anything, mock.Anything, false, mock.Anything).
			Return("", domain.ErrInvalidFilter)

		rec := serve(t, svc, "/export.csv?donor_types=Nobody")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	})
}
