package main

import (
	"errors"
	"flag"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/prathomik/sheba/core"
	"github.com/prathomik/sheba/core/school"
	"github.com/prathomik/sheba/core/user"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	conf      *core.Config
	db        *sqlx.DB
	usrRepo   user.Repository
	schoolSvc *school.Service
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate COMMAND [ARGS] - run DB migrations (goose commands)")
	fmt.Println("  createdb - provision the app user and database")
	fmt.Println("  addsuperadmin -name NAME -email EMAIL - create or promote a ministry admin account")
	fmt.Println("  approveschool -id SCHOOL_ID -admin EMAIL - approve a pending school registration")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addSuperAdminCmd := flag.NewFlagSet("addsuperadmin", flag.ExitOnError)
	addSuperAdminName := addSuperAdminCmd.String("name", "", "The admin's full name.")
	addSuperAdminEmail := addSuperAdminCmd.String("email", "", "The admin's email address.")

	approveSchoolCmd := flag.NewFlagSet("approveschool", flag.ExitOnError)
	approveSchoolID := approveSchoolCmd.String("id", "", "The school's ID.")
	approveSchoolAdmin := approveSchoolCmd.String("admin", "", "Email of the ministry admin performing the approval.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "createdb":
		return cli.createDB()
	case "addsuperadmin":
		if err := addSuperAdminCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addSuperAdminName == "" || *addSuperAdminEmail == "" {
			addSuperAdminCmd.Usage()
			return errHelp
		}
		return cli.addSuperAdmin(*addSuperAdminName, *addSuperAdminEmail)
	case "approveschool":
		if err := approveSchoolCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *approveSchoolID == "" || *approveSchoolAdmin == "" {
			approveSchoolCmd.Usage()
			return errHelp
		}
		return cli.approveSchool(*approveSchoolID, *approveSchoolAdmin)
	default:
		cli.printUsage()
		return errHelp
	}
}
