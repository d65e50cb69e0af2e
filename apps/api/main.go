package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	echoapi "github.com/trezcool/shule/apps/api/echo"
	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/holiday"
	"github.com/trezcool/shule/core/leave"
	"github.com/trezcool/shule/core/schedule"
	"github.com/trezcool/shule/core/section"
	"github.com/trezcool/shule/core/user"
	emailsvc "github.com/trezcool/shule/services/email"
	logsvc "github.com/trezcool/shule/services/logger"
	"github.com/trezcool/shule/storage/database"
	sqlxrepos "github.com/trezcool/shule/storage/database/sqlx"
)

func main() {
	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()

	var logger core.Logger
	if conf.IsProd() {
		logger = logsvc.NewRollbarLogger(std, conf)
	} else {
		logger = core.NewStdLogger(std)
	}

	if err := run(conf, logger, std); err != nil {
		logger.Error("api server failed", err)
		os.Exit(1)
	}
}

func run(conf *core.Config, logger core.Logger, std *log.Logger) error {
	// set up DB
	if err := database.CreateIfNotExist(conf); err != nil {
		return err
	}
	db, err := database.Open(conf)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := database.Migrate(db, conf); err != nil {
		return err
	}
	dbx := sqlx.NewDb(db, "postgres")

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	validate, translator := core.NewValidator()
	user.RegisterValidators(validate, translator)

	usrRepo := sqlxrepos.NewUserRepository(dbx)
	usrSvc := user.NewService(usrRepo, mailSvc, conf)
	secSvc := section.NewService(sqlxrepos.NewSectionRepository(dbx), usrRepo)
	schedSvc := schedule.NewService(sqlxrepos.NewScheduleRepository(dbx))
	holSvc := holiday.NewService(sqlxrepos.NewHolidayRepository(dbx))
	leaveSvc := leave.NewService(sqlxrepos.NewLeaveRepository(dbx), usrRepo, mailSvc)

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	app := echoapi.NewServer(&echoapi.Options{
		Address:        conf.Server.Address(),
		Conf:           conf,
		Logger:         logger,
		Validate:       validate,
		Translator:     translator,
		UserSvc:        usrSvc,
		SectionSvc:     secSvc,
		ScheduleSvc:    schedSvc,
		HolidaySvc:     holSvc,
		LeaveSvc:       leaveSvc,
		SignalShutdown: func() { shutdown <- syscall.SIGTERM },
	})

	go app.Start()
	std.Printf("server listening on %s", conf.Server.Address())

	<-shutdown
	std.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return app.Stop(ctx)
}
