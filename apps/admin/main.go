package main

import (
	"log"
	"os"

	"github.com/prathomik/sheba/core"
	"github.com/prathomik/sheba/core/audit"
	"github.com/prathomik/sheba/core/notification"
	"github.com/prathomik/sheba/core/school"
	"github.com/prathomik/sheba/core/user"
	logsvc "github.com/prathomik/sheba/services/logger"
	"github.com/prathomik/sheba/storage/database"
	sqlxrepos "github.com/prathomik/sheba/storage/database/sqlx"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()

	rollbar := logsvc.NewRollbarLogger(logger, conf)
	rollbar.Enable(!conf.Debug)

	// set up DB
	db, err := database.Open(conf)
	errAndDie(err)
	defer db.Close()
	errAndDie(database.Ping(db))

	// set up repos & services
	usrRepo := sqlxrepos.NewUserRepository(db)
	auditSvc := audit.NewService(sqlxrepos.NewAuditRepository(db), rollbar)
	usrSvc := user.NewService(usrRepo, auditSvc, nil /* mailSvc */, conf)
	notifSvc := notification.NewService(sqlxrepos.NewNotificationRepository(db))
	schoolSvc := school.NewService(sqlxrepos.NewSchoolRepository(db), usrSvc, notifSvc, auditSvc)

	// start CLI
	cli := commandLine{
		conf:      conf,
		db:        db,
		usrRepo:   usrRepo,
		schoolSvc: schoolSvc,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
