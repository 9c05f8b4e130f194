package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/doseminder/doseminder-api/databases/mocks"
)

var a App

func executeRequest(req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	a.Router.ServeHTTP(rr, req)
	return rr
}

func checkResponseCode(t *testing.T, expected, actual int) {
	if expected != actual {
		t.Errorf("Expected response code %d. Got %d\n", expected, actual)
	}
}

// mockDBHelper hands out empty collection mocks so route registration
// can run without a live database
func mockDBHelper() *mocks.DatabaseHelper {
	dbHelper := &mocks.DatabaseHelper{}
	dbHelper.On("Collection", mock.AnythingOfType("string")).Return(&mocks.CollectionHelper{})
	return dbHelper
}

func TestUnknownRoute(t *testing.T) {
	a.dbHelper = mockDBHelper()
	a.Router = a.New()
	req, _ := http.NewRequest("GET", "/asdf", nil)
	response := executeRequest(req)

	checkResponseCode(t, http.StatusNotFound, response.Code)
}

func TestHealthCheckRoute(t *testing.T) {
	a.dbHelper = mockDBHelper()
	a.Router = a.New()
	req, _ := http.NewRequest("GET", "/health", nil)
	response := executeRequest(req)

	checkResponseCode(t, http.StatusOK, response.Code)

	if !strings.Contains(response.Body.String(), "alive") {
		t.Errorf("Expected 'alive' in the reponse. Got '%s'", response.Body.String())
	}
}

func TestMedicationRouteUnauthorized(t *testing.T) {
	a.dbHelper = mockDBHelper()
	a.Router = a.New()
	req, _ := http.NewRequest("GET", "/api/v1/medication/1234", nil)
	response := executeRequest(req)

	checkResponseCode(t, http.StatusUnauthorized, response.Code)
}

func TestSweepRouteUnauthorized(t *testing.T) {
	a.dbHelper = mockDBHelper()
	a.Router = a.New()
	req, _ := http.NewRequest("POST", "/api/v1/sweep", nil)
	response := executeRequest(req)

	checkResponseCode(t, http.StatusUnauthorized, response.Code)
}
