package main

import (
	"fmt"
	"log"
	"os"

	echoapi "github.com/kelasku/jurnalkelas/apps/api/echo"
	"github.com/kelasku/jurnalkelas/core"
	"github.com/kelasku/jurnalkelas/core/account"
	"github.com/kelasku/jurnalkelas/core/authcode"
	"github.com/kelasku/jurnalkelas/core/hash"
	"github.com/kelasku/jurnalkelas/core/journal"
	emailsvc "github.com/kelasku/jurnalkelas/services/email"
	logsvc "github.com/kelasku/jurnalkelas/services/logger"
	"github.com/kelasku/jurnalkelas/storage/database"
	inmemdb "github.com/kelasku/jurnalkelas/storage/database/inmem"
	"github.com/kelasku/jurnalkelas/storage/database/sqlxrepos"
)

func main() {
	conf := core.Conf

	// set up logger
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	// set up repositories
	var (
		acctRepo    account.Repository
		codeRepo    authcode.Repository
		journalRepo journal.Repository
	)
	if conf.Database.Engine == "" {
		db, err := inmemdb.Open()
		if err != nil {
			logger.Fatal(fmt.Sprintf("opening in-memory store: %v", err), err)
		}
		acctRepo = inmemdb.NewAccountRepository(db)
		codeRepo = inmemdb.NewAuthCodeRepository(db)
		journalRepo = inmemdb.NewJournalRepository(db)
	} else {
		db, err := database.Open(conf)
		if err != nil {
			logger.Fatal(fmt.Sprintf("opening database: %v", err), err)
		}
		defer db.Close()
		if err = database.Migrate(db); err != nil {
			logger.Fatal(fmt.Sprintf("migrating database: %v", err), err)
		}
		acctRepo = sqlxrepos.NewAccountRepository(db)
		codeRepo = sqlxrepos.NewAuthCodeRepository(db)
		journalRepo = sqlxrepos.NewJournalRepository(db)
	}

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(logger)
	}

	codeSvc := authcode.NewService(codeRepo)

	var policy account.TeacherIdentityPolicy
	switch conf.Auth.TeacherIdentityPolicy {
	case account.PolicyEmployeeNumber:
		policy = account.NewEmployeeNumberPolicy(acctRepo)
	default:
		policy = account.NewAuthCodePolicy(codeSvc)
	}

	acctSvc := account.NewService(
		acctRepo,
		policy,
		hash.New(conf.Auth.HashAlgorithm),
		account.DemoAccounts,
		mailSvc,
		logger,
	)
	journalSvc := journal.NewService(journalRepo)

	// start API server
	app := echoapi.NewServer(
		&echoapi.Options{
			Address:     conf.Server.Host + ":" + conf.Server.Port,
			Logger:      logger,
			AccountSvc:  acctSvc,
			AuthCodeSvc: codeSvc,
			JournalSvc:  journalSvc,
		},
	)
	app.Start()
}
