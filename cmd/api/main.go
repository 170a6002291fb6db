package main

import (
	"fmt"
	"net/http"

	"github.com/totodo713/miometory-sub002/internal/config"
	appHTTP "github.com/totodo713/miometory-sub002/internal/handler/http"
	"github.com/totodo713/miometory-sub002/internal/pkg/database"
	"github.com/totodo713/miometory-sub002/internal/pkg/jwt"
	"github.com/totodo713/miometory-sub002/internal/repository/postgresql"
	absenceService "github.com/totodo713/miometory-sub002/internal/service/absence"
	approvalService "github.com/totodo713/miometory-sub002/internal/service/approval"
	"github.com/totodo713/miometory-sub002/internal/service/dailylimit"
	worklogService "github.com/totodo713/miometory-sub002/internal/service/worklog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	txRunner := postgresql.NewTxRunner(db)
	workEntryRepo := postgresql.NewWorkEntryRepository(db)
	absenceEntryRepo := postgresql.NewAbsenceEntryRepository(db)
	submissionRepo := postgresql.NewSubmissionRepository(db)
	approvalRepo := postgresql.NewApprovalRepository(db)
	dailyTotals := postgresql.NewDailyTotalProvider(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret)
	limitValidator := dailylimit.NewValidator(dailyTotals)

	workLogSvc := worklogService.NewService(txRunner, workEntryRepo, absenceEntryRepo, limitValidator)
	absenceSvc := absenceService.NewService(txRunner, absenceEntryRepo, limitValidator)
	approvalSvc := approvalService.NewService(txRunner, submissionRepo, approvalRepo, workEntryRepo, absenceEntryRepo)

	router := appHTTP.NewRouter(
		cfg.App.Env,
		jwtService,
		appHTTP.NewWorkLogHandler(workLogSvc),
		appHTTP.NewAbsenceHandler(absenceSvc),
		appHTTP.NewApprovalHandler(approvalSvc),
	)

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Println("Listening on", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
