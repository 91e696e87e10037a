package main

import (
	"errors"
	"flag"
	"fmt"
	"syscall"

	"github.com/jmoiron/sqlx"
	"golang.org/x/term"

	"github.com/kelasku/jurnalkelas/core/account"
	"github.com/kelasku/jurnalkelas/core/authcode"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	db       *sqlx.DB // nil when running on the in-memory store
	acctRepo account.Repository
	codeSvc  authcode.Service
	hasher   account.Hasher
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  issuecode -code CODE [-issuer NAME] - issue a single-use teacher auth code")
	fmt.Println("  addadmin -username USERNAME -name \"FULL NAME\" [-email EMAIL] - create an admin account; the password will be prompted")
	fmt.Println("  migrate COMMAND [ARGS] - run a migration command (up, down, status, ...)")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	issueCodeCmd := flag.NewFlagSet("issuecode", flag.ExitOnError)
	issueCodeVal := issueCodeCmd.String("code", "", "The code to issue, at least 4 characters.")
	issueCodeIssuer := issueCodeCmd.String("issuer", "admin-cli", "Recorded as the code's issuer.")

	addAdminCmd := flag.NewFlagSet("addadmin", flag.ExitOnError)
	addAdminUname := addAdminCmd.String("username", "", "The admin's username. The password will be prompted next.")
	addAdminName := addAdminCmd.String("name", "", "The admin's full name.")
	addAdminEmail := addAdminCmd.String("email", "", "The admin's email address (optional).")

	switch args[1] {
	case "issuecode":
		if err := issueCodeCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *issueCodeVal == "" {
			issueCodeCmd.Usage()
			return errHelp
		}
		return cli.issueCode(*issueCodeVal, *issueCodeIssuer)
	case "addadmin":
		if err := addAdminCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addAdminUname == "" || *addAdminName == "" {
			addAdminCmd.Usage()
			return errHelp
		}
		fmt.Print("Enter password:")
		pwd, err := readPasswordFunc(syscall.Stdin)
		fmt.Println()
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			addAdminCmd.Usage()
			return errHelp
		}
		return cli.addAdmin(*addAdminUname, *addAdminName, *addAdminEmail, string(pwd))
	case "migrate":
		return cli.migrate(args[2:])
	default:
		cli.printUsage()
		return errHelp
	}
}
