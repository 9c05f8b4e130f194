package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/doseminder/doseminder-api/api"
	"github.com/doseminder/doseminder-api/api/scheduler"
	"github.com/doseminder/doseminder-api/config"
	"github.com/doseminder/doseminder-api/coordinator"
	"github.com/doseminder/doseminder-api/databases"
	"github.com/doseminder/doseminder-api/models"
	"github.com/doseminder/doseminder-api/notify"
	"github.com/doseminder/doseminder-api/state"
)

// App stores the router, db connection and the consistency machinery,
// so it can be reused
type App struct {
	Router      *mux.Router
	Config      config.Config
	State       *state.AppState
	Coordinator *coordinator.Coordinator
	Scheduler   *scheduler.Scheduler
	dbHelper    databases.DatabaseHelper
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	// setup go-guardian for middleware
	m := api.MiddlewareDB{DB: databases.NewUserDatabase(a.dbHelper)}
	m.SetupGoGuardian()

	r := mux.NewRouter()

	med := Medication{DB: databases.NewMedicationDatabase(a.dbHelper), Coordinator: a.Coordinator}
	sched := Schedule{DB: databases.NewScheduleDatabase(a.dbHelper), Coordinator: a.Coordinator}
	dose := DoseLog{DB: databases.NewDoseLogDatabase(a.dbHelper), MedDB: databases.NewMedicationDatabase(a.dbHelper), Coordinator: a.Coordinator}
	fired := Fired{Coordinator: a.Coordinator}
	sweep := Sweep{Coordinator: a.Coordinator}
	device := Device{DB: databases.NewPushTokenDatabase(a.dbHelper)}
	u := User{DB: databases.NewUserDatabase(a.dbHelper)}

	// healthchex
	r.HandleFunc("/health", healthCheckHandler)

	apiCreate := r.PathPrefix("/api/v1").Subrouter()

	// bound every API request; generous enough for an on-demand sweep
	apiCreate.Use(api.TimeoutMiddleware(3 * time.Minute))

	apiCreate.Handle("/auth/token", api.Middleware(http.HandlerFunc(m.CreateToken))).Methods("POST")
	apiCreate.Handle("/auth/logout", api.Middleware(http.HandlerFunc(api.RevokeToken))).Methods("DELETE")

	apiCreate.Handle("/medication", api.Middleware(http.HandlerFunc(med.CreateMedicationHandler))).Methods("POST")
	apiCreate.Handle("/medication/{medication_id}", api.Middleware(http.HandlerFunc(med.GetMedicationByIDHandler))).Methods("GET")
	apiCreate.Handle("/medication/{medication_id}", api.Middleware(http.HandlerFunc(med.UpdateMedicationHandler))).Methods("PUT")
	apiCreate.Handle("/medication/{medication_id}", api.Middleware(http.HandlerFunc(med.ArchiveMedicationHandler))).Methods("DELETE")
	apiCreate.Handle("/medication/{medication_id}/reschedule", api.Middleware(http.HandlerFunc(med.RescheduleMedicationHandler))).Methods("POST")
	apiCreate.Handle("/medications", api.Middleware(http.HandlerFunc(med.GetMedicationsHandler))).Methods("GET")

	apiCreate.Handle("/medication/{medication_id}/schedules", api.Middleware(http.HandlerFunc(sched.GetSchedulesByMedicationIDHandler))).Methods("GET")
	apiCreate.Handle("/medication/{medication_id}/schedules", api.Middleware(http.HandlerFunc(sched.CreateScheduleHandler))).Methods("POST")
	apiCreate.Handle("/schedule/{schedule_id}", api.Middleware(http.HandlerFunc(sched.GetScheduleByIDHandler))).Methods("GET")
	apiCreate.Handle("/schedule/{schedule_id}", api.Middleware(http.HandlerFunc(sched.UpdateScheduleHandler))).Methods("PUT")
	apiCreate.Handle("/schedule/{schedule_id}", api.Middleware(http.HandlerFunc(sched.DeleteScheduleHandler))).Methods("DELETE")

	apiCreate.Handle("/dose-log", api.Middleware(http.HandlerFunc(dose.CreateDoseLogHandler))).Methods("POST")
	apiCreate.Handle("/dose-logs/medication/{medication_id}", api.Middleware(http.HandlerFunc(dose.GetDoseLogsByMedicationIDHandler))).Methods("GET")

	apiCreate.Handle("/notifications/fired", api.Middleware(http.HandlerFunc(fired.FiredNotificationHandler))).Methods("POST")
	apiCreate.Handle("/sweep", api.Middleware(http.HandlerFunc(sweep.RunSweepHandler))).Methods("POST")

	apiCreate.Handle("/device/register", api.Middleware(http.HandlerFunc(device.RegisterDeviceHandler))).Methods("POST")
	apiCreate.Handle("/device/unregister", api.Middleware(http.HandlerFunc(device.UnregisterDeviceHandler))).Methods("DELETE")

	apiCreate.Handle("/user/create-user", http.HandlerFunc(u.UserCreateHandler)).Methods("POST")
	apiCreate.Handle("/user/check-user", http.HandlerFunc(u.UserCheckEmailHandler)).Methods("POST")
	apiCreate.Handle("/user/{user_id}", api.Middleware(http.HandlerFunc(u.UserHandler))).Methods("GET")

	r.HandleFunc("/ws/events", HandleEventsWebSocket)

	return r
}

// Initialize is invoked by main to connect with the database and create a router
func (a *App) Initialize() error {

	client, err := databases.NewClient(&a.Config)
	if err != nil {
		// if we fail to create a new database client, then kill the pod
		zap.S().With(err).Error("failed to create new client")
		return err
	}

	a.dbHelper = databases.NewDatabase(&a.Config, client)
	err = client.Connect()
	if err != nil {
		// if we fail to connect to the database, then kill the pod
		zap.S().With(err).Error("failed to connect to database")
		return err
	}
	zap.S().Info("doseminder-api has connected to the database")

	medDB := databases.NewMedicationDatabase(a.dbHelper)
	scheduleDB := databases.NewScheduleDatabase(a.dbHelper)
	mappingDB := databases.NewMappingDatabase(a.dbHelper)
	pushTokenDB := databases.NewPushTokenDatabase(a.dbHelper)
	lockDB := databases.NewSweepLockDatabase(a.dbHelper)

	notifier := notify.NewExpoScheduler(a.Config.PushURL, pushTokenDB)
	a.State = state.New()
	a.Coordinator = coordinator.New(medDB, scheduleDB, mappingDB, notifier, a.State)
	a.Scheduler = scheduler.NewScheduler(a.Coordinator, medDB, lockDB)

	if err := a.warmState(medDB, scheduleDB); err != nil {
		// A cold cache is recoverable; reads repopulate it lazily and
		// the sweep repairs what the warm-up would have caught.
		zap.S().With(err).Warn("failed to warm application state from the database")
	}

	// initialize api router
	a.initializeRoutes()
	return nil

}

// warmState loads the active medications and their schedules into the
// in-memory cache on boot
func (a *App) warmState(medDB databases.MedicationDatabase, scheduleDB databases.ScheduleDatabase) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	medications, err := medDB.GetActive(ctx)
	if err != nil {
		return err
	}

	var schedules []models.MedicationSchedule
	for _, med := range medications {
		scheds, err := scheduleDB.GetByMedicationID(ctx, med.ID)
		if err != nil {
			return err
		}
		schedules = append(schedules, scheds...)
	}

	a.State.Replace(medications, schedules)
	zap.S().Infow("application state warmed",
		"medications", len(medications),
		"schedules", len(schedules),
	)
	return nil
}

func (a *App) initializeRoutes() {
	a.Router = a.New()
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	b, _ := json.Marshal(models.HealthCheckResponse{
		Alive: true,
	})
	_, _ = io.WriteString(w, string(b))
}
