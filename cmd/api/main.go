package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/shiftwise/shiftwise-backend-go/internal/config"
	appHTTP "github.com/shiftwise/shiftwise-backend-go/internal/handler/http"
	"github.com/shiftwise/shiftwise-backend-go/internal/pkg/cron"
	"github.com/shiftwise/shiftwise-backend-go/internal/pkg/database"
	"github.com/shiftwise/shiftwise-backend-go/internal/pkg/jwt"
	"github.com/shiftwise/shiftwise-backend-go/internal/repository/postgresql"
	attendanceService "github.com/shiftwise/shiftwise-backend-go/internal/service/attendance"
	connectivityService "github.com/shiftwise/shiftwise-backend-go/internal/service/connectivity"
	"github.com/shiftwise/shiftwise-backend-go/internal/service/geomatch"
	locationService "github.com/shiftwise/shiftwise-backend-go/internal/service/location"
	missedshiftService "github.com/shiftwise/shiftwise-backend-go/internal/service/missedshift"
	shiftService "github.com/shiftwise/shiftwise-backend-go/internal/service/shift"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	locationRepo := postgresql.NewLocationRepository(db)
	shiftRepo := postgresql.NewShiftRepository(db)
	sessionRepo := postgresql.NewSessionRepository(db)
	explanationRepo := postgresql.NewExplanationRepository(db)
	historyRepo := postgresql.NewHistoryRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	matcher := geomatch.NewMatcher(cfg.Engine.ProximityRadiusMeters)
	engine := attendanceService.NewEngine(sessionRepo, shiftRepo, locationRepo, matcher)

	locationSvc := locationService.NewLocationService(locationRepo)
	shiftSvc := shiftService.NewShiftService(shiftRepo)
	sessionSvc := attendanceService.NewSessionService(sessionRepo, locationRepo)
	connectivitySvc := connectivityService.NewConnectivityService(historyRepo, engine)
	detector := missedshiftService.NewDetector(shiftRepo, sessionRepo, explanationRepo)
	explanationSvc := missedshiftService.NewExplanationService(explanationRepo, detector)

	locationHandler := appHTTP.NewLocationHandler(locationSvc)
	shiftHandler := appHTTP.NewShiftHandler(shiftSvc)
	attendanceHandler := appHTTP.NewAttendanceHandler(sessionSvc)
	connectivityHandler := appHTTP.NewConnectivityHandler(connectivitySvc)
	missedShiftHandler := appHTTP.NewMissedShiftHandler(explanationSvc)

	scheduler := cron.NewScheduler()
	scheduler.AddJob("detect_missed_shifts",
		time.Duration(cfg.Engine.DetectorIntervalMins)*time.Minute, detector.Run)
	attendanceJobs := cron.NewAttendanceJobs(sessionRepo, shiftRepo)
	attendanceJobs.RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(
		jwtService,
		locationHandler,
		shiftHandler,
		attendanceHandler,
		connectivityHandler,
		missedShiftHandler,
	)

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Println("Starting server on", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
